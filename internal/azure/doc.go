// Package azure implements the inventory source against the Azure
// resource-manager and monitor APIs.
//
// One Client serves all subscriptions: per-subscription ARM clients
// (storage, SQL, compute) are constructed on demand with an explicit
// subscription ID, so there is no selected-subscription state to mutate
// between calls. Construction is local; only pager and instance-view calls
// hit the network, and each is bounded by the configured API timeout.
//
// Authentication uses DefaultAzureCredential (environment variables,
// managed identity, Azure CLI, and the rest of the standard chain).
//
// Usage metrics come from Azure Monitor:
//   - storage accounts: UsedCapacity, Average statistic
//   - SQL databases: storage, Maximum statistic
//
// The most recent point of the queried window is used. An empty series is
// reported as (0, false), not as an error: new resources legitimately have
// no samples yet.
//
// Example usage:
//
//	cred, err := azure.NewCredential()
//	if err != nil {
//		log.Fatal(err)
//	}
//	client, err := azure.NewClient(cred, cfg, logger)
//	if err != nil {
//		log.Fatal(err)
//	}
//	subs, err := client.ListSubscriptions(ctx)
package azure
