package helpers

import (
	"bytes"
	"errors"
	"testing"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

type recordingMirror struct {
	messages []string
	err      error
}

func (m *recordingMirror) Send(message string) error {
	m.messages = append(m.messages, message)
	return m.err
}

func TestFileLoggerPlainFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := NewFileLogger(&buf)

	logger.Infoln("EUR/USD: signal generated")
	logger.Debugln("hidden at info level")

	out := buf.String()
	assert.Contains(t, out, "INFO ")
	assert.Contains(t, out, "EUR/USD: signal generated")
	assert.NotContains(t, out, "hidden at info level")
}

func TestFileLoggerMirrorsInfoOnly(t *testing.T) {
	var buf bytes.Buffer
	logger := NewFileLogger(&buf)
	logger.SetLevel(log.DebugLevel)
	mirror := &recordingMirror{}
	logger.SetMirror(mirror)

	logger.Infoln("Premium activated")
	logger.Errorln("boom")
	logger.Debugln("details")

	assert.Equal(t, []string{"Premium activated"}, mirror.messages)
	assert.Contains(t, buf.String(), "details")
}

func TestFileLoggerMirrorFailureIsLogged(t *testing.T) {
	var buf bytes.Buffer
	logger := NewFileLogger(&buf)
	logger.SetMirror(&recordingMirror{err: errors.New("telegram down")})

	logger.Infoln("hello")
	assert.Contains(t, buf.String(), "telegram down")
}
