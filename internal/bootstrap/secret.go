package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"strings"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	"cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/GregMSThompson/sales-dashboard/internal/errs"
)

// ResolveWebhookURL reads the Bitrix webhook URL from Secret Manager.
// secret is a secret id in projectID or a full resource name.
func ResolveWebhookURL(ctx context.Context, projectID, secret string) (string, error) {
	name, err := secretVersionName(projectID, secret)
	if err != nil {
		return "", err
	}

	client, err := secretmanager.NewClient(ctx)
	if err != nil {
		return "", fmt.Errorf("secret manager client: %w", err)
	}
	defer client.Close()

	res, err := client.AccessSecretVersion(ctx, &secretmanagerpb.AccessSecretVersionRequest{Name: name})
	if err != nil {
		return "", secretAccessError(name, err)
	}

	url := strings.TrimSpace(string(res.Payload.Data))
	if url == "" {
		return "", fmt.Errorf("webhook secret %s is empty", name)
	}
	return url, nil
}

func secretAccessError(name string, err error) error {
	switch status.Code(err) {
	case codes.NotFound:
		return errs.NewNotFoundError(fmt.Sprintf("webhook secret %s not found", name))
	case codes.PermissionDenied:
		return errs.NewValidationError(fmt.Sprintf("no access to webhook secret %s: %v", name, err))
	}
	return fmt.Errorf("access webhook secret %s: %w", name, err)
}

func secretVersionName(projectID, secret string) (string, error) {
	if secret == "" {
		return "", errors.New("webhook secret name is empty")
	}
	if strings.HasPrefix(secret, "projects/") {
		if strings.Contains(secret, "/versions/") {
			return secret, nil
		}
		return secret + "/versions/latest", nil
	}
	if projectID == "" {
		return "", errors.New("PROJECTID is required to resolve the webhook secret")
	}
	return fmt.Sprintf("projects/%s/secrets/%s/versions/latest", projectID, secret), nil
}
