// Package models defines the core domain models for SnapTab.
//
// # Entities
//
//   - Bill: a receipt being split, owned by whoever holds the creator token
//   - Item: a single line item on a bill
//   - Participant: a person splitting the bill, identified by a short token
//   - Claim: "this participant claims this item" (many-to-many join)
//
// Bills move through a one-way lifecycle: editing -> active -> complete.
// While editing, only the creator can see the bill; once active, anyone with
// the share token can join and claim items; once complete, the final split is
// frozen and served to everyone.
//
// # Design Principles
//
//  1. No user accounts: possession of a token is the only authority model
//  2. Relationships use ID strings rather than pointers to avoid cycles
//  3. Monetary fields that may be unknown (subtotal, tax, tip) are pointers,
//     never zero-valued, so "absent" and "0.00" stay distinguishable
package models
