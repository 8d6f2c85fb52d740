package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProjectRecordCloneIsIndependent(t *testing.T) {
	webhookID := int64(42)
	original := &ProjectRecord{
		Slug: "widgets",
		Container: ContainerConfig{
			EnvVars: map[string]string{"FOO": "bar"},
		},
		Webhook: WebhookConfig{
			Secret:           "s3cr3t",
			GitHostWebhookID: &webhookID,
		},
	}

	clone := original.Clone()

	// mutating the clone must not affect the original
	clone.Container.EnvVars["FOO"] = "mutated"
	*clone.Webhook.GitHostWebhookID = 99

	assert.Equal(t, "bar", original.Container.EnvVars["FOO"])
	assert.Equal(t, int64(42), *original.Webhook.GitHostWebhookID)
	assert.Equal(t, "mutated", clone.Container.EnvVars["FOO"])
	assert.Equal(t, int64(99), *clone.Webhook.GitHostWebhookID)
}

func TestProjectRecordCloneHandlesNilWebhookID(t *testing.T) {
	original := &ProjectRecord{
		Slug:      "widgets",
		Container: ContainerConfig{EnvVars: map[string]string{}},
	}

	clone := original.Clone()
	assert.Nil(t, clone.Webhook.GitHostWebhookID)
}

func TestNetworkModeString(t *testing.T) {
	assert.Equal(t, "Local Only", NetworkLocalOnly.String())
	assert.Equal(t, "Public", NetworkPublic.String())
}
