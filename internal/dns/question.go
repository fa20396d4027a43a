package dns

import (
	"encoding/binary"
	"fmt"
)

// Question is one entry of the question section (RFC 1035 Section 4.1.2).
// Name is stored without its trailing dot, exactly as decoded.
type Question struct {
	Name  string
	Type  uint16
	Class uint16
}

// Marshal serializes the question to wire format.
func (q Question) Marshal() ([]byte, error) {
	name, err := EncodeName(q.Name)
	if err != nil {
		return nil, err
	}
	b := make([]byte, len(name)+4)
	copy(b, name)
	binary.BigEndian.PutUint16(b[len(name):], q.Type)
	binary.BigEndian.PutUint16(b[len(name)+2:], q.Class)
	return b, nil
}

// String renders the question in presentation form, e.g. "example.com. IN A".
func (q Question) String() string {
	class := "IN"
	if RecordClass(q.Class) != ClassIN {
		class = fmt.Sprintf("CLASS%d", q.Class)
	}
	return fmt.Sprintf("%s. %s %s", q.Name, class, RecordType(q.Type))
}

// ParseQuestion parses a question at *off and advances *off past it.
func ParseQuestion(msg []byte, off *int) (Question, error) {
	name, err := DecodeName(msg, off)
	if err != nil {
		return Question{}, err
	}
	if *off+4 > len(msg) {
		return Question{}, fmt.Errorf("%w: unexpected EOF while reading DNS question", ErrDNSError)
	}
	q := Question{
		Name:  name,
		Type:  binary.BigEndian.Uint16(msg[*off : *off+2]),
		Class: binary.BigEndian.Uint16(msg[*off+2 : *off+4]),
	}
	*off += 4
	return q, nil
}
