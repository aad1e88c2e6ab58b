package alert

import (
	"bufio"
	"context"
	"net"
	"net/textproto"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSMTPServer accepts one session and records the DATA payload
func fakeSMTPServer(t *testing.T) (host string, port int, received <-chan string) {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = ln.Close() })

	out := make(chan string, 1)
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()

		tp := textproto.NewConn(conn)
		_ = tp.PrintfLine("220 localhost ESMTP test")
		for {
			line, err := tp.ReadLine()
			if err != nil {
				return
			}
			switch cmd := strings.ToUpper(strings.Fields(line)[0]); cmd {
			case "EHLO", "HELO":
				_ = tp.PrintfLine("250 localhost")
			case "MAIL", "RCPT":
				_ = tp.PrintfLine("250 OK")
			case "DATA":
				_ = tp.PrintfLine("354 go ahead")
				data, _ := tp.ReadDotBytes()
				out <- string(data)
				_ = tp.PrintfLine("250 queued")
			case "QUIT":
				_ = tp.PrintfLine("221 bye")
				return
			default:
				_ = tp.PrintfLine("502 not implemented")
			}
		}
	}()

	addr := ln.Addr().(*net.TCPAddr)
	return addr.IP.String(), addr.Port, out
}

func TestSMTPChannel_Send(t *testing.T) {
	host, port, received := fakeSMTPServer(t)
	ch := NewSMTPChannel(SMTPConfig{
		Host: host,
		Port: port,
		From: "soc@example.com",
		To:   "oncall@example.com",
	})
	msg := NewMessage(testIncident(), uuid.New())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	require.NoError(t, ch.Send(ctx, msg))

	select {
	case data := <-received:
		r := textproto.NewReader(bufio.NewReader(strings.NewReader(data)))
		headers, err := r.ReadMIMEHeader()
		require.NoError(t, err)
		assert.Equal(t, Subject, headers.Get("Subject"))
		assert.Equal(t, "oncall@example.com", headers.Get("To"))
		assert.Equal(t, msg.AnalysisID.String(), headers.Get("X-Deepguard-Incident"))
		assert.Contains(t, data, "Risk Score: 47.5%")
		assert.Contains(t, data, "Action Taken: File Isolated")
	case <-time.After(time.Second):
		t.Fatal("message was not received")
	}
}

func TestSMTPChannel_ConnectionRefused(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := ln.Addr().(*net.TCPAddr).Port
	require.NoError(t, ln.Close())

	ch := NewSMTPChannel(SMTPConfig{Host: "127.0.0.1", Port: port, From: "a@example.com", To: "b@example.com"})

	err = ch.Send(context.Background(), NewMessage(testIncident(), uuid.New()))

	assert.ErrorContains(t, err, "connect to smtp server")
}

func TestSMTPChannel_BuildMessageUsesCRLF(t *testing.T) {
	ch := NewSMTPChannel(SMTPConfig{From: "a@example.com", To: "b@example.com", Port: 25})

	raw := ch.buildMessage(NewMessage(testIncident(), uuid.New()))

	assert.True(t, strings.HasPrefix(raw, "From: a@example.com\r\n"))
	assert.NotContains(t, strings.ReplaceAll(raw, "\r\n", ""), "\n")
	assert.Equal(t, "smtp", ch.Name())
	assert.Equal(t, 10*time.Second, ch.cfg.DialTimeout)
}
