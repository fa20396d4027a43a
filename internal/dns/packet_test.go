package dns

import (
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func samplePacket() Packet {
	return Packet{
		Header:    Header{ID: 0xABCD, Flags: Flags{QR: 1, RD: 1, RA: 1}.Pack()},
		Questions: []Question{{Name: "example.com", Type: uint16(TypeA), Class: uint16(ClassIN)}},
		Answers: []Record{
			NewIPRecord(NewRRHeader("example.com", ClassIN, 300), net.ParseIP("192.0.2.1")),
			NewIPRecord(NewRRHeader("example.com", ClassIN, 300), net.ParseIP("2001:db8::1")),
		},
		Authorities: []Record{
			NewNameRecord(NewRRHeader("example.com", ClassIN, 60), TypeNS, "ns1.example.com"),
		},
		Additionals: []Record{
			NewRawRecord(NewRRHeader("example.com", ClassIN, 60), TypeTXT, []byte{5, 'h', 'e', 'l', 'l', 'o'}),
			CreateOPT(4096).Record(),
		},
	}
}

func TestPacketRoundTrip(t *testing.T) {
	p := samplePacket()
	b, err := p.Marshal()
	require.NoError(t, err)

	got, err := ParsePacket(b)
	require.NoError(t, err)

	assert.Equal(t, uint16(0xABCD), got.Header.ID)
	assert.Equal(t, uint16(1), got.Header.QDCount)
	assert.Equal(t, uint16(2), got.Header.ANCount)
	assert.Equal(t, uint16(1), got.Header.NSCount)
	assert.Equal(t, uint16(2), got.Header.ARCount)
	require.Len(t, got.Questions, 1)
	assert.Equal(t, p.Questions[0], got.Questions[0])

	require.Len(t, got.Answers, 2)
	assert.Equal(t, TypeA, got.Answers[0].Type())
	assert.Equal(t, TypeAAAA, got.Answers[1].Type())
	ip, ok := got.Answers[0].(*IPRecord)
	require.True(t, ok)
	assert.True(t, ip.Addr.Equal(net.ParseIP("192.0.2.1")))
	assert.Equal(t, uint32(300), ip.Header().TTL)

	ns, ok := got.Authorities[0].(*NameRecord)
	require.True(t, ok)
	assert.Equal(t, "ns1.example.com", ns.Target)

	opt := ExtractOPT(got.Additionals)
	require.NotNil(t, opt)
	assert.Equal(t, uint16(4096), opt.UDPPayloadSize)
}

func TestPacketMarshalRecomputesCounts(t *testing.T) {
	p := Packet{Header: Header{ID: 1, QDCount: 9, ANCount: 9}}
	b, err := p.Marshal()
	require.NoError(t, err)
	assert.Equal(t, []byte{0, 1, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0}, b)
}

func TestParseQueryLimits(t *testing.T) {
	t.Run("too many questions", func(t *testing.T) {
		b := []byte{0, 1, 0, 0, 0, MaxQuestions + 1, 0, 0, 0, 0, 0, 0}
		_, err := ParseQuery(b)
		require.ErrorIs(t, err, ErrDNSError)
	})

	t.Run("too large", func(t *testing.T) {
		_, err := ParseQuery(make([]byte, MaxIncomingDNSMessageSize+1))
		require.ErrorIs(t, err, ErrDNSError)
	})

	t.Run("response accepted", func(t *testing.T) {
		b, err := samplePacket().Marshal()
		require.NoError(t, err)
		got, err := ParseQuery(b)
		require.NoError(t, err)
		assert.True(t, got.Header.IsResponse())
	})
}

func TestParsePacketTruncated(t *testing.T) {
	b, err := samplePacket().Marshal()
	require.NoError(t, err)
	_, err = ParsePacket(b[:len(b)-3])
	require.ErrorIs(t, err, ErrDNSError)
}

func TestParseRecordBadAddressLength(t *testing.T) {
	msg := []byte{0, 0, 1, 0, 1, 0, 0, 0, 60, 0, 3, 1, 2, 3}
	off := 0
	_, err := ParseRecord(msg, &off)
	require.ErrorIs(t, err, ErrDNSError)
}

func TestQuestionString(t *testing.T) {
	q := Question{Name: "example.com", Type: uint16(TypeAAAA), Class: 1}
	assert.Equal(t, "example.com. IN AAAA", q.String())
}

// dottedLabelQuery is a query for the two-label name whose first label is
// the four bytes "a.b" plus a trailing "c": [4]a.bc[3]com[0].
var dottedLabelQuery = []byte{
	0x12, 0x34, 0x01, 0x00, 0, 1, 0, 0, 0, 0, 0, 0,
	4, 'a', '.', 'b', 'c', 3, 'c', 'o', 'm', 0,
	0, 1, 0, 1,
}

func TestPacketKeepsWireQuestion(t *testing.T) {
	p, err := ParseQuery(dottedLabelQuery)
	require.NoError(t, err)
	require.Len(t, p.Questions, 1)
	assert.Equal(t, "a.bc.com", p.Questions[0].Name)
	assert.Equal(t, dottedLabelQuery[HeaderSize:], p.RawQuestions)

	reencoded, err := Packet{Header: p.Header, Questions: p.Questions}.Marshal()
	require.NoError(t, err)
	assert.NotEqual(t, dottedLabelQuery, reencoded, "decoded name loses the label boundary")

	verbatim, err := p.Marshal()
	require.NoError(t, err)
	assert.Equal(t, dottedLabelQuery, verbatim)
}
