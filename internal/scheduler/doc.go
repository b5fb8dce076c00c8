// Package scheduler re-runs the directory scan on a fixed interval.
//
// The scheduler keeps a single timer. When it fires, the scan runs on the
// scheduler's goroutine and the timer is only re-armed once the scan has
// returned, so two scans never overlap and a slow scan pushes the next one
// back instead of queueing it.
//
// Every attempt produces a [Result]. A scan that returns an error or panics
// is handed to a [reporting.Reporter] and the loop carries on; nothing a
// scan does can stop the schedule. Registered hooks see every Result and
// are used to rebuild derived state such as search suggestions.
//
// A scan can also be requested out of band with [Scheduler.Trigger], which
// main wires to SIGHUP.
package scheduler
