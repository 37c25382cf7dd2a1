package inventory

import (
	"context"
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/zgpcy/azure-inventory-exporter/internal/config"
	"github.com/zgpcy/azure-inventory-exporter/internal/logger"
)

// fakeSource serves canned resources and metric samples, keyed by
// subscription and resource ID.
type fakeSource struct {
	subs    []Subscription
	subsErr error

	storage    map[string][]StorageAccount // by subscription ID
	storageErr map[string]error            // by subscription ID

	servers   map[string][]SQLServer // by subscription ID
	databases map[string][]Database  // by server ID
	dbErr     map[string]error       // by server ID

	vms      map[string][]VirtualMachine // by subscription ID
	power    map[string]string           // by VM ID
	powerErr map[string]error            // by VM ID

	usedBytes map[string]float64 // by resource ID; absent means empty series
	metricErr map[string]error   // by resource ID
}

func (f *fakeSource) ListSubscriptions(ctx context.Context) ([]Subscription, error) {
	return f.subs, f.subsErr
}

func (f *fakeSource) ListStorageAccounts(ctx context.Context, subscriptionID string) ([]StorageAccount, error) {
	if err := f.storageErr[subscriptionID]; err != nil {
		return nil, err
	}
	return f.storage[subscriptionID], nil
}

func (f *fakeSource) ListSQLServers(ctx context.Context, subscriptionID string) ([]SQLServer, error) {
	return f.servers[subscriptionID], nil
}

func (f *fakeSource) ListDatabases(ctx context.Context, subscriptionID string, server SQLServer) ([]Database, error) {
	if err := f.dbErr[server.ID]; err != nil {
		return nil, err
	}
	return f.databases[server.ID], nil
}

func (f *fakeSource) ListVirtualMachines(ctx context.Context, subscriptionID string) ([]VirtualMachine, error) {
	return f.vms[subscriptionID], nil
}

func (f *fakeSource) VMPowerState(ctx context.Context, subscriptionID string, vm VirtualMachine) (string, error) {
	if err := f.powerErr[vm.ID]; err != nil {
		return "", err
	}
	return f.power[vm.ID], nil
}

func (f *fakeSource) StorageAccountUsedBytes(ctx context.Context, resourceID string) (float64, bool, error) {
	return f.metric(resourceID)
}

func (f *fakeSource) DatabaseUsedBytes(ctx context.Context, resourceID string) (float64, bool, error) {
	return f.metric(resourceID)
}

func (f *fakeSource) metric(resourceID string) (float64, bool, error) {
	if err := f.metricErr[resourceID]; err != nil {
		return 0, false, err
	}
	v, ok := f.usedBytes[resourceID]
	return v, ok, nil
}

// recordingWriter captures every append per sheet.
type recordingWriter struct {
	appends map[string]int
	rows    map[string][][]any
}

func newRecordingWriter() *recordingWriter {
	return &recordingWriter{
		appends: make(map[string]int),
		rows:    make(map[string][][]any),
	}
}

func (w *recordingWriter) AppendRows(sheet string, header []string, rows [][]any) error {
	if len(rows) == 0 {
		return fmt.Errorf("writer received an empty batch for sheet %s", sheet)
	}
	w.appends[sheet]++
	w.rows[sheet] = append(w.rows[sheet], rows...)
	return nil
}

func testCollector(source Source, writer RowWriter, mutate func(*config.Config)) *Collector {
	cfg := config.Default()
	if mutate != nil {
		mutate(cfg)
	}
	return NewCollector(source, writer, cfg, logger.NewWithWriter(io.Discard, "error", "text"))
}

func TestRun_StorageAcrossSubscriptions(t *testing.T) {
	source := &fakeSource{
		subs: []Subscription{
			{ID: "sub-1", Name: "Production"},
			{ID: "sub-2", Name: "Development"},
		},
		storage: map[string][]StorageAccount{
			"sub-1": {{ID: "acct-1", Name: "prodstore"}},
			"sub-2": {{ID: "acct-2", Name: "devstore"}},
		},
		usedBytes: map[string]float64{
			"acct-1": 5 * (1 << 30),
			// acct-2 has no samples: a new account, reported as zero
		},
	}
	writer := newRecordingWriter()

	summary, err := testCollector(source, writer, nil).Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	rows := writer.rows[SheetStorageAccounts]
	if len(rows) != 2 {
		t.Fatalf("Expected 2 StorageAccounts rows, got %d", len(rows))
	}
	if got := rows[0][4]; got != 5.00 {
		t.Errorf("First row UsedGB = %v, want 5.00", got)
	}
	if got := rows[1][4]; got != 0.00 {
		t.Errorf("Second row UsedGB = %v, want 0.00", got)
	}
	if summary.StorageAccounts != 2 {
		t.Errorf("Summary.StorageAccounts = %d, want 2", summary.StorageAccounts)
	}
	if len(summary.Skips) != 0 {
		t.Errorf("Expected no skips, got %v", summary.Skips)
	}
}

func TestRun_MasterDatabaseExcluded(t *testing.T) {
	source := &fakeSource{
		subs: []Subscription{{ID: "sub-1", Name: "Production"}},
		servers: map[string][]SQLServer{
			"sub-1": {{ID: "srv-1", Name: "sql-prod", ResourceGroup: "prod-rg"}},
		},
		databases: map[string][]Database{
			"srv-1": {
				{ID: "db-master", Name: "master"},
				{ID: "db-1", Name: "app1"},
				{ID: "db-2", Name: "app2"},
			},
		},
		usedBytes: map[string]float64{
			"db-1": 1 << 30,
			"db-2": 2 * (1 << 30),
		},
	}
	writer := newRecordingWriter()

	summary, err := testCollector(source, writer, nil).Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	rows := writer.rows[SheetDatabases]
	if len(rows) != 2 {
		t.Fatalf("Expected 2 Databases rows, got %d", len(rows))
	}
	if rows[0][2] != "app1" || rows[1][2] != "app2" {
		t.Errorf("Database rows = %v and %v, want app1 and app2", rows[0][2], rows[1][2])
	}
	if summary.Databases != 2 {
		t.Errorf("Summary.Databases = %d, want 2", summary.Databases)
	}
}

func TestRun_DeallocatedVMExcluded(t *testing.T) {
	source := &fakeSource{
		subs: []Subscription{{ID: "sub-1", Name: "Production"}},
		vms: map[string][]VirtualMachine{
			"sub-1": {{ID: "vm-1", Name: "batch-vm", OSDiskGB: 128}},
		},
		power: map[string]string{"vm-1": "VM deallocated"},
	}
	writer := newRecordingWriter()

	summary, err := testCollector(source, writer, nil).Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if len(writer.rows[SheetVMs]) != 0 {
		t.Errorf("Expected no VMs rows, got %v", writer.rows[SheetVMs])
	}
	if summary.VMs != 0 {
		t.Errorf("Summary.VMs = %d, want 0", summary.VMs)
	}
	// Deallocated is an exclusion rule, not a fault.
	if len(summary.Skips) != 0 {
		t.Errorf("Expected no skips, got %v", summary.Skips)
	}
}

func TestRun_PerItemFailureSkipsAndContinues(t *testing.T) {
	source := &fakeSource{
		subs: []Subscription{{ID: "sub-1", Name: "Production"}},
		storage: map[string][]StorageAccount{
			"sub-1": {
				{ID: "acct-1", Name: "brokenstore"},
				{ID: "acct-2", Name: "goodstore"},
			},
		},
		metricErr: map[string]error{"acct-1": errors.New("403 forbidden")},
		usedBytes: map[string]float64{"acct-2": 1 << 30},
	}
	writer := newRecordingWriter()

	summary, err := testCollector(source, writer, nil).Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v, one bad resource must not abort the run", err)
	}

	if len(writer.rows[SheetStorageAccounts]) != 1 {
		t.Fatalf("Expected 1 StorageAccounts row, got %d", len(writer.rows[SheetStorageAccounts]))
	}
	if len(summary.Skips) != 1 {
		t.Fatalf("Expected 1 skip, got %d", len(summary.Skips))
	}
	if summary.Skips[0].Resource != "brokenstore" {
		t.Errorf("Skip resource = %q, want brokenstore", summary.Skips[0].Resource)
	}
}

func TestRun_ListFailureSkipsSubscriptionKind(t *testing.T) {
	source := &fakeSource{
		subs: []Subscription{
			{ID: "sub-1", Name: "Broken"},
			{ID: "sub-2", Name: "Healthy"},
		},
		storageErr: map[string]error{"sub-1": errors.New("listing denied")},
		storage: map[string][]StorageAccount{
			"sub-2": {{ID: "acct-1", Name: "store"}},
		},
		usedBytes: map[string]float64{"acct-1": 1 << 30},
	}
	writer := newRecordingWriter()

	summary, err := testCollector(source, writer, nil).Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if len(writer.rows[SheetStorageAccounts]) != 1 {
		t.Errorf("Expected 1 row from the healthy subscription, got %d", len(writer.rows[SheetStorageAccounts]))
	}
	if len(summary.Skips) != 1 || summary.Skips[0].Resource != "Broken" {
		t.Errorf("Expected one skip for subscription Broken, got %v", summary.Skips)
	}
}

func TestRun_SubscriptionEnumerationIsFatal(t *testing.T) {
	source := &fakeSource{subsErr: errors.New("authentication failed")}
	writer := newRecordingWriter()

	if _, err := testCollector(source, writer, nil).Run(context.Background()); err == nil {
		t.Fatal("Run() error = nil, want fatal error when enumeration fails")
	}
}

func TestRun_BatchedFlushesComposeIntoOneSheet(t *testing.T) {
	machines := make([]VirtualMachine, 5)
	power := make(map[string]string, 5)
	for i := range machines {
		id := fmt.Sprintf("vm-%d", i)
		machines[i] = VirtualMachine{ID: id, Name: id, OSDiskGB: 64}
		power[id] = "VM running"
	}
	source := &fakeSource{
		subs:  []Subscription{{ID: "sub-1", Name: "Production"}},
		vms:   map[string][]VirtualMachine{"sub-1": machines},
		power: power,
	}
	writer := newRecordingWriter()

	summary, err := testCollector(source, writer, func(cfg *config.Config) {
		cfg.BatchSize = 2
	}).Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if writer.appends[SheetVMs] != 3 {
		t.Errorf("Expected 3 flushes for 5 records at batch size 2, got %d", writer.appends[SheetVMs])
	}
	if len(writer.rows[SheetVMs]) != 5 {
		t.Errorf("Expected 5 VMs rows in total, got %d", len(writer.rows[SheetVMs]))
	}
	if summary.VMs != 5 {
		t.Errorf("Summary.VMs = %d, want 5", summary.VMs)
	}
}

func TestRun_SubscriptionAllowList(t *testing.T) {
	source := &fakeSource{
		subs: []Subscription{
			{ID: "sub-1", Name: "Production"},
			{ID: "sub-2", Name: "Development"},
		},
		storage: map[string][]StorageAccount{
			"sub-1": {{ID: "acct-1", Name: "prodstore"}},
			"sub-2": {{ID: "acct-2", Name: "devstore"}},
		},
		usedBytes: map[string]float64{"acct-1": 1 << 30, "acct-2": 1 << 30},
	}
	writer := newRecordingWriter()

	summary, err := testCollector(source, writer, func(cfg *config.Config) {
		cfg.Subscriptions = []string{"sub-2"}
	}).Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if summary.Subscriptions != 1 {
		t.Errorf("Summary.Subscriptions = %d, want 1", summary.Subscriptions)
	}
	rows := writer.rows[SheetStorageAccounts]
	if len(rows) != 1 || rows[0][1] != "devstore" {
		t.Errorf("Expected only devstore, got %v", rows)
	}
}
