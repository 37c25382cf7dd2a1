package inventory

import "context"

// Sheet names in the output workbook, one per resource kind.
const (
	SheetStorageAccounts = "StorageAccounts"
	SheetDatabases       = "Databases"
	SheetVMs             = "VMs"
)

// SystemDatabaseName is the SQL system database excluded from the report.
// Exact, case-sensitive match: "Master" would be a user database.
const SystemDatabaseName = "master"

// Subscription identifies one Azure subscription visible to the credential.
type Subscription struct {
	ID   string
	Name string
}

// StorageAccount is a listed storage account before shaping.
type StorageAccount struct {
	ID            string
	Name          string
	ResourceGroup string
	Location      string
	Kind          string
}

// SQLServer is a listed SQL logical server before shaping.
type SQLServer struct {
	ID            string
	Name          string
	ResourceGroup string
	Location      string
}

// Database is a listed database on a SQL logical server before shaping.
type Database struct {
	ID           string
	Name         string
	MaxSizeBytes int64
}

// VirtualMachine is a listed VM before shaping. Disk sizes are in GB as
// reported by the compute API.
type VirtualMachine struct {
	ID            string
	Name          string
	ResourceGroup string
	Location      string
	Size          string
	OSDiskGB      int32
	DataDiskGB    []int32
}

// StorageAccountRecord is one row of the StorageAccounts sheet.
type StorageAccountRecord struct {
	Subscription   string
	StorageAccount string
	ResourceGroup  string
	Location       string
	UsedGB         float64
	Kind           string
}

// DatabaseRecord is one row of the Databases sheet.
type DatabaseRecord struct {
	Subscription  string
	Server        string
	Database      string
	ResourceGroup string
	Location      string
	UsedGB        float64
	MaxGB         float64
}

// VMRecord is one row of the VMs sheet.
type VMRecord struct {
	Subscription string
	Name         string
	Size         string
	PowerState   string
	Location     string
	TotalDiskGB  float64
}

// Sheet headers, column order matches the record row methods below.
var (
	storageHeader  = []string{"Subscription", "StorageAccount", "ResourceGroup", "Location", "UsedGB", "Kind"}
	databaseHeader = []string{"Subscription", "Server", "Database", "ResourceGroup", "Location", "UsedGB", "MaxGB"}
	vmHeader       = []string{"Subscription", "VMName", "Size", "PowerState", "Location", "TotalDiskGB"}
)

func (r StorageAccountRecord) row() []any {
	return []any{r.Subscription, r.StorageAccount, r.ResourceGroup, r.Location, r.UsedGB, r.Kind}
}

func (r DatabaseRecord) row() []any {
	return []any{r.Subscription, r.Server, r.Database, r.ResourceGroup, r.Location, r.UsedGB, r.MaxGB}
}

func (r VMRecord) row() []any {
	return []any{r.Subscription, r.Name, r.Size, r.PowerState, r.Location, r.TotalDiskGB}
}

func sheetRows[T interface{ row() []any }](records []T) [][]any {
	rows := make([][]any, 0, len(records))
	for _, r := range records {
		rows = append(rows, r.row())
	}
	return rows
}

// SubscriptionLister enumerates the subscriptions visible to the session.
type SubscriptionLister interface {
	ListSubscriptions(ctx context.Context) ([]Subscription, error)
}

// ResourceLister enumerates resources of each kind within one subscription.
// Calls are scoped by explicit subscription ID rather than any ambient
// selected-subscription state.
type ResourceLister interface {
	ListStorageAccounts(ctx context.Context, subscriptionID string) ([]StorageAccount, error)
	ListSQLServers(ctx context.Context, subscriptionID string) ([]SQLServer, error)
	ListDatabases(ctx context.Context, subscriptionID string, server SQLServer) ([]Database, error)
	ListVirtualMachines(ctx context.Context, subscriptionID string) ([]VirtualMachine, error)
	VMPowerState(ctx context.Context, subscriptionID string, vm VirtualMachine) (string, error)
}

// MetricReader fetches the most recent usage sample for one resource.
// ok=false reports an empty series, a normal condition for new resources;
// callers treat it as zero usage.
type MetricReader interface {
	StorageAccountUsedBytes(ctx context.Context, resourceID string) (value float64, ok bool, err error)
	DatabaseUsedBytes(ctx context.Context, resourceID string) (value float64, ok bool, err error)
}

// Source is what the collector needs from Azure. *azure.Client implements it.
type Source interface {
	SubscriptionLister
	ResourceLister
	MetricReader
}

// RowWriter appends a batch of rows to a named sheet. Implementations must
// treat an empty batch as a no-op and must never create an empty sheet.
// *export.Workbook implements it.
type RowWriter interface {
	AppendRows(sheet string, header []string, rows [][]any) error
}
