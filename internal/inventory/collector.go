package inventory

import (
	"context"
	"fmt"

	"github.com/zgpcy/azure-inventory-exporter/internal/config"
	"github.com/zgpcy/azure-inventory-exporter/internal/logger"
)

// Skip records one resource omitted from the report and why. Skips never
// abort the run; the report simply lacks that row.
type Skip struct {
	Sheet    string
	Resource string
	Reason   error
}

// Summary describes one completed run: rows written per sheet and the
// resources that were skipped.
type Summary struct {
	Subscriptions   int
	StorageAccounts int
	Databases       int
	VMs             int
	Skips           []Skip
}

// Collector walks every subscription and drives listing, metric fetching,
// shaping, and batched writing for all three resource kinds.
type Collector struct {
	source Source
	writer RowWriter
	cfg    *config.Config
	logger *logger.Logger
}

// NewCollector creates a Collector
func NewCollector(source Source, writer RowWriter, cfg *config.Config, log *logger.Logger) *Collector {
	return &Collector{
		source: source,
		writer: writer,
		cfg:    cfg,
		logger: log,
	}
}

// Run performs one full inventory pass. A subscription enumeration failure
// is fatal: nothing can be listed without it. Everything below that level
// is handled per item: a failing account, server, database, or VM is
// logged, recorded as a Skip, and the loop moves on. Only write failures
// propagate, since the workbook is unusable after one.
func (c *Collector) Run(ctx context.Context) (*Summary, error) {
	subs, err := c.source.ListSubscriptions(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list subscriptions: %w", err)
	}
	subs = c.allowed(subs)
	c.logger.Info("Enumerated subscriptions", "count", len(subs))

	sum := &Summary{Subscriptions: len(subs)}

	// One buffer per sheet, held across subscriptions so flushes compose
	// into a single continuous tab per resource kind.
	storage := NewBatch(c.cfg.BatchSize, func(records []StorageAccountRecord) error {
		sum.StorageAccounts += len(records)
		return c.writer.AppendRows(SheetStorageAccounts, storageHeader, sheetRows(records))
	})
	databases := NewBatch(c.cfg.BatchSize, func(records []DatabaseRecord) error {
		sum.Databases += len(records)
		return c.writer.AppendRows(SheetDatabases, databaseHeader, sheetRows(records))
	})
	vms := NewBatch(c.cfg.BatchSize, func(records []VMRecord) error {
		sum.VMs += len(records)
		return c.writer.AppendRows(SheetVMs, vmHeader, sheetRows(records))
	})

	for _, sub := range subs {
		c.logger.Info("Collecting subscription",
			"subscription", sub.Name,
			"subscription_id", sub.ID)

		if err := c.collectStorageAccounts(ctx, sub, storage, sum); err != nil {
			return nil, err
		}
		if err := c.collectDatabases(ctx, sub, databases, sum); err != nil {
			return nil, err
		}
		if err := c.collectVirtualMachines(ctx, sub, vms, sum); err != nil {
			return nil, err
		}
	}

	// Drain remainders below the flush threshold.
	if err := storage.Flush(); err != nil {
		return nil, fmt.Errorf("failed to write %s rows: %w", SheetStorageAccounts, err)
	}
	if err := databases.Flush(); err != nil {
		return nil, fmt.Errorf("failed to write %s rows: %w", SheetDatabases, err)
	}
	if err := vms.Flush(); err != nil {
		return nil, fmt.Errorf("failed to write %s rows: %w", SheetVMs, err)
	}

	return sum, nil
}

func (c *Collector) collectStorageAccounts(ctx context.Context, sub Subscription, batch *Batch[StorageAccountRecord], sum *Summary) error {
	accounts, err := c.source.ListStorageAccounts(ctx, sub.ID)
	if err != nil {
		c.skip(sum, SheetStorageAccounts, sub.Name, err)
		return nil
	}

	for _, acct := range accounts {
		usedBytes, ok, err := c.source.StorageAccountUsedBytes(ctx, acct.ID)
		if err != nil {
			c.skip(sum, SheetStorageAccounts, acct.Name, err)
			continue
		}
		if !ok {
			// No samples yet: new account or metrics not emitted. Counts as empty.
			usedBytes = 0
			c.logger.Debug("No capacity samples, reporting zero", "storage_account", acct.Name)
		}
		if err := batch.Append(ShapeStorageAccount(sub, acct, usedBytes)); err != nil {
			return fmt.Errorf("failed to write %s rows: %w", SheetStorageAccounts, err)
		}
	}

	return nil
}

func (c *Collector) collectDatabases(ctx context.Context, sub Subscription, batch *Batch[DatabaseRecord], sum *Summary) error {
	servers, err := c.source.ListSQLServers(ctx, sub.ID)
	if err != nil {
		c.skip(sum, SheetDatabases, sub.Name, err)
		return nil
	}

	for _, server := range servers {
		dbs, err := c.source.ListDatabases(ctx, sub.ID, server)
		if err != nil {
			c.skip(sum, SheetDatabases, server.Name, err)
			continue
		}

		for _, db := range dbs {
			if db.Name == SystemDatabaseName {
				continue
			}
			usedBytes, ok, err := c.source.DatabaseUsedBytes(ctx, db.ID)
			if err != nil {
				c.skip(sum, SheetDatabases, server.Name+"/"+db.Name, err)
				continue
			}
			if !ok {
				usedBytes = 0
				c.logger.Debug("No storage samples, reporting zero",
					"server", server.Name,
					"database", db.Name)
			}
			if err := batch.Append(ShapeDatabase(sub, server, db, usedBytes)); err != nil {
				return fmt.Errorf("failed to write %s rows: %w", SheetDatabases, err)
			}
		}
	}

	return nil
}

func (c *Collector) collectVirtualMachines(ctx context.Context, sub Subscription, batch *Batch[VMRecord], sum *Summary) error {
	machines, err := c.source.ListVirtualMachines(ctx, sub.ID)
	if err != nil {
		c.skip(sum, SheetVMs, sub.Name, err)
		return nil
	}

	for _, vm := range machines {
		// Power state needs a second, per-VM instance view call.
		powerState, err := c.source.VMPowerState(ctx, sub.ID, vm)
		if err != nil {
			c.skip(sum, SheetVMs, vm.Name, err)
			continue
		}

		record, ok := ShapeVirtualMachine(sub, vm, powerState)
		if !ok {
			c.logger.Debug("Excluding deallocated VM", "vm", vm.Name, "power_state", powerState)
			continue
		}
		if err := batch.Append(record); err != nil {
			return fmt.Errorf("failed to write %s rows: %w", SheetVMs, err)
		}
	}

	return nil
}

// skip records and logs one omitted resource.
func (c *Collector) skip(sum *Summary, sheet, resource string, reason error) {
	sum.Skips = append(sum.Skips, Skip{Sheet: sheet, Resource: resource, Reason: reason})
	c.logger.Warn("Skipping resource",
		"sheet", sheet,
		"resource", resource,
		"error", reason)
}

// allowed applies the configured subscription allow-list. An empty list
// means every visible subscription.
func (c *Collector) allowed(subs []Subscription) []Subscription {
	if len(c.cfg.Subscriptions) == 0 {
		return subs
	}

	only := make(map[string]bool, len(c.cfg.Subscriptions))
	for _, id := range c.cfg.Subscriptions {
		only[id] = true
	}

	filtered := make([]Subscription, 0, len(subs))
	for _, sub := range subs {
		if only[sub.ID] {
			filtered = append(filtered, sub)
		}
	}
	return filtered
}
