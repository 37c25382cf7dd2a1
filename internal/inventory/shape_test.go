package inventory

import "testing"

func TestBytesToGB(t *testing.T) {
	tests := []struct {
		name  string
		bytes float64
		want  float64
	}{
		{"zero", 0, 0},
		{"exactly one GiB", 1 << 30, 1.00},
		{"five GiB", 5 * (1 << 30), 5.00},
		{"half GiB", 1 << 29, 0.5},
		{"rounds to two decimals", 1.234 * (1 << 30), 1.23},
		{"rounds up", 1.237 * (1 << 30), 1.24},
		{"below rounding resolution", 1024, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := BytesToGB(tt.bytes); got != tt.want {
				t.Errorf("BytesToGB(%v) = %v, want %v", tt.bytes, got, tt.want)
			}
		})
	}
}

func TestIsDeallocated(t *testing.T) {
	tests := []struct {
		powerState string
		want       bool
	}{
		{"VM deallocated", true},
		{"VM Deallocated", true},
		{"VM DEALLOCATED", true},
		{"deallocated", true},
		{"VM running", false},
		{"VM stopped", false},
		{"VM deallocating", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.powerState, func(t *testing.T) {
			if got := IsDeallocated(tt.powerState); got != tt.want {
				t.Errorf("IsDeallocated(%q) = %v, want %v", tt.powerState, got, tt.want)
			}
		})
	}
}

func TestShapeStorageAccount(t *testing.T) {
	sub := Subscription{ID: "sub-1", Name: "Production"}
	acct := StorageAccount{
		ID:            "/subscriptions/sub-1/resourceGroups/prod-rg/providers/Microsoft.Storage/storageAccounts/prodstore",
		Name:          "prodstore",
		ResourceGroup: "prod-rg",
		Location:      "westeurope",
		Kind:          "StorageV2",
	}

	record := ShapeStorageAccount(sub, acct, 5*(1<<30))

	if record.Subscription != "Production" {
		t.Errorf("Subscription = %q, want Production", record.Subscription)
	}
	if record.StorageAccount != "prodstore" {
		t.Errorf("StorageAccount = %q, want prodstore", record.StorageAccount)
	}
	if record.UsedGB != 5.00 {
		t.Errorf("UsedGB = %v, want 5.00", record.UsedGB)
	}
	if record.Kind != "StorageV2" {
		t.Errorf("Kind = %q, want StorageV2", record.Kind)
	}
}

func TestShapeStorageAccount_NoMetricDataIsZero(t *testing.T) {
	record := ShapeStorageAccount(Subscription{Name: "Dev"}, StorageAccount{Name: "newstore"}, 0)
	if record.UsedGB != 0 {
		t.Errorf("UsedGB = %v, want 0 for a resource without metric data", record.UsedGB)
	}
}

func TestShapeDatabase(t *testing.T) {
	sub := Subscription{ID: "sub-1", Name: "Production"}
	server := SQLServer{Name: "sql-prod", ResourceGroup: "prod-rg", Location: "westeurope"}
	db := Database{Name: "app1", MaxSizeBytes: 250 * (1 << 30)}

	record := ShapeDatabase(sub, server, db, 1.5*(1<<30))

	if record.Server != "sql-prod" {
		t.Errorf("Server = %q, want sql-prod", record.Server)
	}
	if record.Database != "app1" {
		t.Errorf("Database = %q, want app1", record.Database)
	}
	if record.UsedGB != 1.5 {
		t.Errorf("UsedGB = %v, want 1.5", record.UsedGB)
	}
	if record.MaxGB != 250.00 {
		t.Errorf("MaxGB = %v, want 250.00", record.MaxGB)
	}
	if record.ResourceGroup != "prod-rg" {
		t.Errorf("ResourceGroup = %q, want prod-rg", record.ResourceGroup)
	}
}

func TestShapeVirtualMachine(t *testing.T) {
	sub := Subscription{Name: "Production"}

	t.Run("os disk plus data disks", func(t *testing.T) {
		vm := VirtualMachine{
			Name:       "vm-1",
			Size:       "Standard_D2s_v3",
			Location:   "westeurope",
			OSDiskGB:   128,
			DataDiskGB: []int32{256, 512},
		}

		record, ok := ShapeVirtualMachine(sub, vm, "VM running")
		if !ok {
			t.Fatal("ShapeVirtualMachine() ok = false, want true for a running VM")
		}
		if record.TotalDiskGB != 896 {
			t.Errorf("TotalDiskGB = %v, want 896", record.TotalDiskGB)
		}
		if record.PowerState != "VM running" {
			t.Errorf("PowerState = %q, want \"VM running\"", record.PowerState)
		}
	})

	t.Run("no data disks contributes zero", func(t *testing.T) {
		vm := VirtualMachine{Name: "vm-2", OSDiskGB: 128}

		record, ok := ShapeVirtualMachine(sub, vm, "VM running")
		if !ok {
			t.Fatal("ShapeVirtualMachine() ok = false, want true")
		}
		if record.TotalDiskGB != 128 {
			t.Errorf("TotalDiskGB = %v, want 128", record.TotalDiskGB)
		}
	})

	t.Run("deallocated VM is excluded", func(t *testing.T) {
		vm := VirtualMachine{Name: "vm-3", OSDiskGB: 128}

		if _, ok := ShapeVirtualMachine(sub, vm, "VM deallocated"); ok {
			t.Error("ShapeVirtualMachine() ok = true, want false for a deallocated VM")
		}
		if _, ok := ShapeVirtualMachine(sub, vm, "VM Deallocated"); ok {
			t.Error("ShapeVirtualMachine() ok = true, want false regardless of case")
		}
	})
}
