// internal/platform/di/secret_provider_sm.go
package di

import (
	"context"
	"errors"
	"strings"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	secretmanagerpb "cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
)

// resolveSecret reads "projects/<project>/secrets/<secretID>/versions/latest".
// Used for the DB password and the SendGrid API key when their *_SECRET env
// vars are set.
func resolveSecret(ctx context.Context, sm *secretmanager.Client, projectID, secretID string) (string, error) {
	if sm == nil {
		return "", errors.New("di: secretmanager client not configured")
	}
	prj := strings.TrimSpace(projectID)
	sid := strings.TrimSpace(secretID)
	if prj == "" || sid == "" {
		return "", errors.New("di: projectID or secretID is empty")
	}

	name := "projects/" + prj + "/secrets/" + sid + "/versions/latest"
	resp, err := sm.AccessSecretVersion(ctx, &secretmanagerpb.AccessSecretVersionRequest{Name: name})
	if err != nil {
		return "", errors.New("di: AccessSecretVersion failed (" + name + "): " + err.Error())
	}
	if resp == nil || resp.Payload == nil {
		return "", errors.New("di: empty secret payload (" + name + ")")
	}
	return strings.TrimSpace(string(resp.Payload.Data)), nil
}
