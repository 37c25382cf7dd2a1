package azure

import (
	"context"
	"fmt"

	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/storage/armstorage"
	"github.com/zgpcy/azure-inventory-exporter/internal/inventory"
)

// ListStorageAccounts enumerates all storage accounts in one subscription.
func (c *Client) ListStorageAccounts(ctx context.Context, subscriptionID string) ([]inventory.StorageAccount, error) {
	client, err := armstorage.NewAccountsClient(subscriptionID, c.cred, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage accounts client: %w", err)
	}

	ctx, cancel := c.callContext(ctx)
	defer cancel()

	var accounts []inventory.StorageAccount
	pager := client.NewListPager(nil)
	for pager.More() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list storage accounts: %w", err)
		}

		for _, acct := range page.Value {
			if acct.ID == nil || acct.Name == nil {
				continue
			}
			account := inventory.StorageAccount{
				ID:            *acct.ID,
				Name:          *acct.Name,
				ResourceGroup: resourceGroupFromID(*acct.ID),
				Location:      safeString(acct.Location),
			}
			if acct.Kind != nil {
				account.Kind = string(*acct.Kind)
			}
			accounts = append(accounts, account)
		}
	}

	return accounts, nil
}
