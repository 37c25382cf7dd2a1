package azure

import (
	"context"
	"fmt"

	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/sql/armsql"
	"github.com/zgpcy/azure-inventory-exporter/internal/inventory"
)

// ListSQLServers enumerates all SQL logical servers in one subscription.
func (c *Client) ListSQLServers(ctx context.Context, subscriptionID string) ([]inventory.SQLServer, error) {
	client, err := armsql.NewServersClient(subscriptionID, c.cred, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create SQL servers client: %w", err)
	}

	ctx, cancel := c.callContext(ctx)
	defer cancel()

	var servers []inventory.SQLServer
	pager := client.NewListPager(nil)
	for pager.More() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list SQL servers: %w", err)
		}

		for _, server := range page.Value {
			if server.ID == nil || server.Name == nil {
				continue
			}
			servers = append(servers, inventory.SQLServer{
				ID:            *server.ID,
				Name:          *server.Name,
				ResourceGroup: resourceGroupFromID(*server.ID),
				Location:      safeString(server.Location),
			})
		}
	}

	return servers, nil
}

// ListDatabases enumerates the databases of one SQL logical server,
// including the system database; exclusion is the collector's concern.
func (c *Client) ListDatabases(ctx context.Context, subscriptionID string, server inventory.SQLServer) ([]inventory.Database, error) {
	client, err := armsql.NewDatabasesClient(subscriptionID, c.cred, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create SQL databases client: %w", err)
	}

	ctx, cancel := c.callContext(ctx)
	defer cancel()

	var databases []inventory.Database
	pager := client.NewListByServerPager(server.ResourceGroup, server.Name, nil)
	for pager.More() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list databases on server %s: %w", server.Name, err)
		}

		for _, db := range page.Value {
			if db.ID == nil || db.Name == nil {
				continue
			}
			database := inventory.Database{
				ID:   *db.ID,
				Name: *db.Name,
			}
			if db.Properties != nil && db.Properties.MaxSizeBytes != nil {
				database.MaxSizeBytes = *db.Properties.MaxSizeBytes
			}
			databases = append(databases, database)
		}
	}

	return databases, nil
}
