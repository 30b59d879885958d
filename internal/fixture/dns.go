package fixture

import (
	"net"
	"net/netip"
	"sync/atomic"

	"golang.org/x/net/dns/dnsmessage"
)

// DNSServer answers every A question over UDP on 127.0.0.1 with a single
// record, other question types get an empty successful answer.
type DNSServer struct {
	Addr string

	pc      net.PacketConn
	answer  netip.Addr
	queries atomic.Int32
	done    chan struct{}
}

func ServeDNS(answer netip.Addr) (*DNSServer, error) {
	pc, err := net.ListenPacket("udp", "127.0.0.1:0")
	if err != nil {
		return nil, err
	}
	s := &DNSServer{
		Addr:   pc.LocalAddr().String(),
		pc:     pc,
		answer: answer.Unmap(),
		done:   make(chan struct{}),
	}
	go s.serve()
	return s, nil
}

// Queries reports how many questions were answered so far.
func (s *DNSServer) Queries() int {
	return int(s.queries.Load())
}

func (s *DNSServer) Close() {
	s.pc.Close()
	<-s.done
}

func (s *DNSServer) serve() {
	defer close(s.done)
	buf := make([]byte, 512)
	for {
		n, from, err := s.pc.ReadFrom(buf)
		if err != nil {
			return
		}
		resp, err := s.reply(buf[:n])
		if err != nil {
			continue
		}
		s.queries.Add(1)
		s.pc.WriteTo(resp, from) //nolint:errcheck
	}
}

func (s *DNSServer) reply(query []byte) ([]byte, error) {
	var p dnsmessage.Parser
	hdr, err := p.Start(query)
	if err != nil {
		return nil, err
	}
	q, err := p.Question()
	if err != nil {
		return nil, err
	}

	b := dnsmessage.NewBuilder(nil, dnsmessage.Header{
		ID:                 hdr.ID,
		Response:           true,
		Authoritative:      true,
		RecursionDesired:   hdr.RecursionDesired,
		RecursionAvailable: true,
	})
	b.EnableCompression()
	if err := b.StartQuestions(); err != nil {
		return nil, err
	}
	if err := b.Question(q); err != nil {
		return nil, err
	}
	if err := b.StartAnswers(); err != nil {
		return nil, err
	}
	if q.Type == dnsmessage.TypeA && s.answer.Is4() {
		err := b.AResource(
			dnsmessage.ResourceHeader{Name: q.Name, Type: dnsmessage.TypeA, Class: dnsmessage.ClassINET, TTL: 60},
			dnsmessage.AResource{A: s.answer.As4()},
		)
		if err != nil {
			return nil, err
		}
	}
	return b.Finish()
}
