package seo

import "github.com/tieubaoca/aquaevents/types"

// Injector ties one view to one slot of a Registry. The view calls Sync each
// time it is displayed or its data changes and Teardown when it goes away.
type Injector struct {
	registry *Registry
	slot     string
}

func (r *Registry) Bind(slot string) *Injector {
	return &Injector{registry: r, slot: slot}
}

func (i *Injector) Slot() string {
	return i.slot
}

func (i *Injector) Sync(payload any) error {
	return i.registry.Upsert(i.slot, payload)
}

func (i *Injector) Teardown() {
	i.registry.Remove(i.slot)
}

// SyncFAQ publishes the FAQ schema, or tears the slot down when there is
// nothing to publish.
func (i *Injector) SyncFAQ(entries []types.FAQEntry) error {
	if len(entries) == 0 {
		i.Teardown()
		return nil
	}
	return i.Sync(NewFAQPage(entries))
}

func (i *Injector) SyncBreadcrumb(origin string, items []types.BreadcrumbItem) error {
	if len(items) == 0 {
		i.Teardown()
		return nil
	}
	return i.Sync(NewBreadcrumbList(origin, items))
}
