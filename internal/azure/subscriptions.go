package azure

import (
	"context"
	"fmt"

	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/resources/armsubscriptions"
	"github.com/zgpcy/azure-inventory-exporter/internal/inventory"
)

// ListSubscriptions enumerates every subscription visible to the credential.
// The display name falls back to the subscription ID when Azure returns none.
func (c *Client) ListSubscriptions(ctx context.Context) ([]inventory.Subscription, error) {
	client, err := armsubscriptions.NewClient(c.cred, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create subscriptions client: %w", err)
	}

	ctx, cancel := c.callContext(ctx)
	defer cancel()

	var subs []inventory.Subscription
	pager := client.NewListPager(nil)
	for pager.More() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list subscriptions: %w", err)
		}

		for _, sub := range page.Value {
			if sub.SubscriptionID == nil {
				continue
			}
			name := safeString(sub.DisplayName)
			if name == "" {
				name = *sub.SubscriptionID
			}
			subs = append(subs, inventory.Subscription{
				ID:   *sub.SubscriptionID,
				Name: name,
			})
		}
	}

	return subs, nil
}
