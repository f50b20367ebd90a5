package mailer

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/ykvlv/eventbot/internal/domain"
)

var keynote = domain.Reminder{
	To:        "asha@example.com",
	EventName: "Keynote",
	EventTime: "2025-01-01 10:00:00+0530",
	Location:  "Main Hall",
}

func TestSubjectAndBody(t *testing.T) {
	assert.Equal(t, "Upcoming Event Reminder: Keynote", Subject(keynote))

	body := Body(keynote)
	assert.Contains(t, body, "Your event 'Keynote' is starting soon!")
	assert.Contains(t, body, "Time: 2025-01-01 10:00:00+0530")
	assert.Contains(t, body, "Location: Main Hall")
}

func TestNewSMTP_Defaults(t *testing.T) {
	s := NewSMTP(Config{Sender: "bot@example.com"}, zap.NewNop())
	assert.Equal(t, DefaultHost, s.cfg.Host)
	assert.Equal(t, DefaultPort, s.cfg.Port)
}

func TestSendReminder_InvalidRecipient(t *testing.T) {
	s := NewSMTP(Config{Sender: "bot@example.com"}, zap.NewNop())

	r := keynote
	r.To = "not an address"
	err := s.SendReminder(context.Background(), r)

	var de *domain.DeliveryError
	require.True(t, errors.As(err, &de))
	assert.Equal(t, "not an address", de.To)
}

func TestSendReminder_RelayDown(t *testing.T) {
	// grab a free port and close it so nothing listens there
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := ln.Addr().(*net.TCPAddr).Port
	require.NoError(t, ln.Close())

	s := NewSMTP(Config{Host: "127.0.0.1", Port: port, Sender: "bot@example.com", Password: "x"}, zap.NewNop())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err = s.SendReminder(ctx, keynote)

	var de *domain.DeliveryError
	require.True(t, errors.As(err, &de))
	assert.Equal(t, keynote.To, de.To)
}

func TestDryRun_LogsInsteadOfSending(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	d := NewDryRun(zap.New(core))

	require.NoError(t, d.SendReminder(context.Background(), keynote))

	entries := logs.FilterMessage("dry run: reminder not sent").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "asha@example.com", fields["to"])
	assert.Equal(t, "Upcoming Event Reminder: Keynote", fields["subject"])
}
