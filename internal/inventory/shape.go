package inventory

import (
	"math"
	"strings"
)

// bytesPerGB is the byte-to-GB divisor (GiB, 2^30).
const bytesPerGB = 1 << 30

// BytesToGB converts a byte count to GB rounded to 2 decimal places.
func BytesToGB(bytes float64) float64 {
	return math.Round(bytes/bytesPerGB*100) / 100
}

// IsDeallocated reports whether a VM power state string describes a
// deallocated VM, matching "deallocated" case-insensitively anywhere in the
// value (the API reports display statuses like "VM deallocated"). The
// transitional "VM deallocating" state does not match and such VMs stay in
// the report.
func IsDeallocated(powerState string) bool {
	return strings.Contains(strings.ToLower(powerState), "deallocated")
}

// ShapeStorageAccount maps a storage account and its used-capacity sample
// (in bytes) to a sheet row.
func ShapeStorageAccount(sub Subscription, acct StorageAccount, usedBytes float64) StorageAccountRecord {
	return StorageAccountRecord{
		Subscription:   sub.Name,
		StorageAccount: acct.Name,
		ResourceGroup:  acct.ResourceGroup,
		Location:       acct.Location,
		UsedGB:         BytesToGB(usedBytes),
		Kind:           acct.Kind,
	}
}

// ShapeDatabase maps a database and its storage sample (in bytes) to a
// sheet row. Used and max sizes are rounded independently.
func ShapeDatabase(sub Subscription, server SQLServer, db Database, usedBytes float64) DatabaseRecord {
	return DatabaseRecord{
		Subscription:  sub.Name,
		Server:        server.Name,
		Database:      db.Name,
		ResourceGroup: server.ResourceGroup,
		Location:      server.Location,
		UsedGB:        BytesToGB(usedBytes),
		MaxGB:         BytesToGB(float64(db.MaxSizeBytes)),
	}
}

// ShapeVirtualMachine maps a VM and its power state to a sheet row. The
// second return value is false for deallocated VMs, which are excluded from
// the report entirely. Total disk size is the OS disk plus all data disks;
// a VM with no data disks contributes the OS disk alone.
func ShapeVirtualMachine(sub Subscription, vm VirtualMachine, powerState string) (VMRecord, bool) {
	if IsDeallocated(powerState) {
		return VMRecord{}, false
	}

	total := int64(vm.OSDiskGB)
	for _, gb := range vm.DataDiskGB {
		total += int64(gb)
	}

	return VMRecord{
		Subscription: sub.Name,
		Name:         vm.Name,
		Size:         vm.Size,
		PowerState:   powerState,
		Location:     vm.Location,
		TotalDiskGB:  float64(total),
	}, true
}
