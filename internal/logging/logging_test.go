package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigure(t *testing.T) {
	var buf bytes.Buffer
	l := logrus.New()
	require.NoError(t, Configure(l, &buf, "warn", "json"))
	assert.Equal(t, logrus.WarnLevel, l.GetLevel())

	l.Info("hidden")
	l.WithField("court", "A").Warn("shown")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "shown", line["msg"])
	assert.Equal(t, "A", line["court"])

	assert.Error(t, Configure(l, &buf, "loud", "text"))
}

func TestContext(t *testing.T) {
	assert.NotNil(t, FromContext(context.Background()))

	entry := logrus.New().WithField("request_id", "r-1")
	ctx := ToContext(context.Background(), entry)
	assert.Same(t, entry, FromContext(ctx))
}
