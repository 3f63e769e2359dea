// Package core defines the shared value types exchanged between the
// relation tracing components: extracted queries, parsed table schemas,
// foreign-key relationships, and the aggregate RelationMap.
//
// Everything in this package is a plain value type. Instances are
// constructed fresh per trace and never persisted.
package core
