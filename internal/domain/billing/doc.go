// Package billing provides domain models for incorporation order billing.
//
// This package implements the billing bounded context, which is responsible
// for:
//   - Creating an incorporation order when an application is submitted
//   - Pricing the order from the jurisdiction fee schedule
//   - Tracking the order through its payment lifecycle
//
// Key Aggregates:
//   - IncorporationOrder: The billable order for one submitted application
//
// Value Objects:
//   - Fee: The government and service fee for a jurisdiction
//   - OrderStatus: Enumeration of payment lifecycle states
//
// The billing domain integrates with:
//   - Onboarding domain: Orders are created from ApplicationSubmitted events
package billing
