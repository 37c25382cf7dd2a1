package azure

import (
	"context"
	"fmt"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/compute/armcompute/v5"
	"github.com/zgpcy/azure-inventory-exporter/internal/inventory"
)

// powerStatePrefix marks the power state entry among instance view statuses.
const powerStatePrefix = "PowerState/"

// ListVirtualMachines enumerates all VMs in one subscription. Power state is
// not part of the listing response; it takes a separate per-VM instance view
// call (VMPowerState).
func (c *Client) ListVirtualMachines(ctx context.Context, subscriptionID string) ([]inventory.VirtualMachine, error) {
	client, err := armcompute.NewVirtualMachinesClient(subscriptionID, c.cred, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create VM client: %w", err)
	}

	ctx, cancel := c.callContext(ctx)
	defer cancel()

	var machines []inventory.VirtualMachine
	pager := client.NewListAllPager(nil)
	for pager.More() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list VMs: %w", err)
		}

		for _, vm := range page.Value {
			if vm.ID == nil || vm.Name == nil {
				continue
			}

			machine := inventory.VirtualMachine{
				ID:            *vm.ID,
				Name:          *vm.Name,
				ResourceGroup: resourceGroupFromID(*vm.ID),
				Location:      safeString(vm.Location),
			}

			if vm.Properties != nil {
				if vm.Properties.HardwareProfile != nil && vm.Properties.HardwareProfile.VMSize != nil {
					machine.Size = string(*vm.Properties.HardwareProfile.VMSize)
				}
				if sp := vm.Properties.StorageProfile; sp != nil {
					if sp.OSDisk != nil && sp.OSDisk.DiskSizeGB != nil {
						machine.OSDiskGB = *sp.OSDisk.DiskSizeGB
					}
					for _, dataDisk := range sp.DataDisks {
						if dataDisk != nil && dataDisk.DiskSizeGB != nil {
							machine.DataDiskGB = append(machine.DataDiskGB, *dataDisk.DiskSizeGB)
						}
					}
				}
			}

			machines = append(machines, machine)
		}
	}

	return machines, nil
}

// VMPowerState queries the instance view of one VM and returns its power
// state display string, e.g. "VM running" or "VM deallocated". A VM whose
// instance view carries no power state entry reports "unknown".
func (c *Client) VMPowerState(ctx context.Context, subscriptionID string, vm inventory.VirtualMachine) (string, error) {
	client, err := armcompute.NewVirtualMachinesClient(subscriptionID, c.cred, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create VM client: %w", err)
	}

	ctx, cancel := c.callContext(ctx)
	defer cancel()

	view, err := client.InstanceView(ctx, vm.ResourceGroup, vm.Name, nil)
	if err != nil {
		return "", fmt.Errorf("failed to get instance view for VM %s: %w", vm.Name, err)
	}

	for _, status := range view.Statuses {
		if status == nil || status.Code == nil {
			continue
		}
		if strings.HasPrefix(*status.Code, powerStatePrefix) {
			if status.DisplayStatus != nil {
				return *status.DisplayStatus, nil
			}
			return strings.TrimPrefix(*status.Code, powerStatePrefix), nil
		}
	}

	return "unknown", nil
}
