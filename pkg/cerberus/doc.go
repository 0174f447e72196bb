// Package cerberus builds and applies native queue security descriptors.
//
// Cerberus guards the gate itself: given an ordered list of trustees and
// the rights granted or denied to each, it resolves every trustee to its
// native identity, marshals the entries into the form the platform's
// security subsystem expects, and merges them against a queue's existing
// descriptor. All native memory it borrows along the way is released on
// every path, success or failure.
//
// # Basic Usage
//
// Build an access control list and merge it over a queue's current one:
//
//	acl := cerberus.NewAccessControlList()
//	entry := cerberus.NewAccessControlEntry(
//	    cerberus.NewTrustee("ferryman"),
//	    domain.RightReceiveMessage,
//	    domain.EntryGrant,
//	)
//	if err := acl.Add(entry); err != nil {
//	    return err
//	}
//
//	sys := cerberus.NewHostSubsystem()
//	handle, err := acl.BuildNative(sys, cerberus.NilAcl)
//	if err != nil {
//	    return err
//	}
//	defer cerberus.FreeNativeACL(sys, handle)
//
// # Applying to a Queue
//
// ApplyQueueACL fetches the queue's descriptor, merges, and writes back:
//
//	err := cerberus.ApplyQueueACL(sys, "PUBLIC=order-queue", acl)
//
// # Testing Without a Host Subsystem
//
// SimSubsystem implements the same contract in memory, with configurable
// accounts, injectable failures, and allocation accounting:
//
//	sim := cerberus.NewSimSubsystem()
//	sim.AddAccount("ferryman", "STYX", domain.TrusteeUser)
//	handle, err := acl.BuildNative(sim, cerberus.NilAcl)
//
// Platform support is checked before any native call: on anything but an
// NT lineage platform, building fails with ErrUnsupportedPlatform.
package cerberus
