// Package orchestration runs one or more aggregation strategies over the same
// digest set and compares their results. It decouples the run from its
// presentation via the ProgressReporter and ResultPresenter interfaces.
package orchestration
