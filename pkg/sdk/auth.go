package sdk

import (
	"context"
	"fmt"
	"net/http"

	"github.com/polyteia-connect/polyteia-sdk-go/pkg/api"
	"go.uber.org/zap"
)

// AuthTokenPath exchanges a personal access key for an access token.
const AuthTokenPath = "/auth/pak/token"

// GetOrgAccessToken exchanges the personal access key pak for a short-lived
// access token scoped to orgID. It does not require the client to hold a token.
func (c *Client) GetOrgAccessToken(ctx context.Context, orgID, pak string) (string, error) {
	if err := required("organization id", orgID, "personal access key", pak); err != nil {
		return "", err
	}
	ctx, cancel := c.withTimeout(ctx, c.cfg.Timeouts.Request)
	defer cancel()

	doc, err := c.api.JSON(ctx, http.MethodPut, AuthTokenPath, pak,
		map[string]any{"organization_id": orgID},
		api.ValidateOptions{
			Context:      "Get org access token",
			RequiredKeys: []string{"token"},
		})
	if err != nil {
		zap.L().Debug("Access token exchange failed", zap.String("organization_id", orgID), zap.Error(err))
		return "", fmt.Errorf("organization %s: %w", orgID, err)
	}
	zap.L().Debug("Obtained access token", zap.String("organization_id", orgID))
	return doc.String("token")
}
