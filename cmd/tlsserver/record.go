package main

import (
	"encoding/binary"
	"fmt"
	"io"
)

// contentType is the one-octet TLS record content type tag (RFC 5246
// §6.2.1). The demo only needs to frame plaintext handshake, change
// cipher spec, and alert records; the encrypted record path (application
// data, and handshake/alert records after ChangeCipherSpec) is the record
// layer's job and out of scope here, so the demo stops driving the
// connection once the handshake reaches Established.
type contentType uint8

const (
	contentTypeChangeCipherSpec contentType = 20
	contentTypeAlert            contentType = 21
	contentTypeHandshake        contentType = 22
)

// recordHeaderLen is the 5-octet TLS record header: type(1) || version(2) || length(2).
const recordHeaderLen = 5

const maxRecordLength = 1 << 14 // RFC 5246 §6.2.1

// readRecord reads one plaintext TLS record and returns its content type
// and fragment payload.
func readRecord(r io.Reader) (contentType, []byte, error) {
	var hdr [recordHeaderLen]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return 0, nil, err
	}

	length := binary.BigEndian.Uint16(hdr[3:5])
	if int(length) > maxRecordLength {
		return 0, nil, fmt.Errorf("record length %d exceeds maximum", length)
	}

	payload := make([]byte, length)
	if _, err := io.ReadFull(r, payload); err != nil {
		return 0, nil, err
	}

	return contentType(hdr[0]), payload, nil
}

// writeRecord writes payload as one or more plaintext TLS records of at
// most maxRecordLength octets each, every record header carrying the given
// record version.
func writeRecord(w io.Writer, typ contentType, version uint16, payload []byte) error {
	for len(payload) > 0 {
		chunk := payload
		if len(chunk) > maxRecordLength {
			chunk = chunk[:maxRecordLength]
		}

		var hdr [recordHeaderLen]byte
		hdr[0] = byte(typ)
		binary.BigEndian.PutUint16(hdr[1:3], version)
		binary.BigEndian.PutUint16(hdr[3:5], uint16(len(chunk)))

		if _, err := w.Write(hdr[:]); err != nil {
			return err
		}
		if _, err := w.Write(chunk); err != nil {
			return err
		}

		payload = payload[len(chunk):]
	}
	return nil
}
