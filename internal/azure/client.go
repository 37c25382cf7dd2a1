package azure

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/monitor/armmonitor"
	"github.com/zgpcy/azure-inventory-exporter/internal/clock"
	"github.com/zgpcy/azure-inventory-exporter/internal/config"
	"github.com/zgpcy/azure-inventory-exporter/internal/inventory"
	"github.com/zgpcy/azure-inventory-exporter/internal/logger"
)

// Client wraps the Azure resource-manager and monitor clients behind the
// inventory interfaces. Per-subscription ARM clients are constructed on
// demand with an explicit subscription ID; there is no selected-subscription
// state.
type Client struct {
	cred    azcore.TokenCredential
	metrics *armmonitor.MetricsClient
	cfg     *config.Config
	logger  *logger.Logger
	clock   clock.Clock // Time provider for testing
}

// Verify that Client implements the collector's source interface
var _ inventory.Source = (*Client)(nil)

// NewCredential obtains the authenticated session for the run. Uses
// DefaultAzureCredential, which supports environment variables, managed
// identity, Azure CLI, and the other standard chains. Failure here is
// fatal to the run.
func NewCredential() (azcore.TokenCredential, error) {
	cred, err := azidentity.NewDefaultAzureCredential(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create Azure credential: %w", err)
	}
	return cred, nil
}

// NewClient creates a Client on an authenticated credential
func NewClient(cred azcore.TokenCredential, cfg *config.Config, log *logger.Logger) (*Client, error) {
	metrics, err := armmonitor.NewMetricsClient(cred, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create metrics client: %w", err)
	}

	return &Client{
		cred:    cred,
		metrics: metrics,
		cfg:     cfg,
		logger:  log,
		clock:   clock.RealClock{}, // Use real system time by default
	}, nil
}

// callContext bounds one API call with the configured timeout.
func (c *Client) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, time.Duration(c.cfg.APITimeout)*time.Second)
}

// resourceGroupFromID extracts the resource group from an Azure resource ID,
// e.g. "/subscriptions/.../resourceGroups/prod-rg/providers/..." -> "prod-rg".
func resourceGroupFromID(resourceID string) string {
	parts := strings.Split(resourceID, "/")
	for i, part := range parts {
		if strings.EqualFold(part, "resourceGroups") && i+1 < len(parts) {
			return parts[i+1]
		}
	}
	return ""
}

func safeString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
