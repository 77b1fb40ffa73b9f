// Package providerfactory turns persisted settings into provider clients.
//
// NewProvider is a closed switch over the supported provider ids. Build runs
// it for every enabled provider and collects the results in an immutable
// Registry. A provider whose client fails to construct is logged, recorded
// as a *ConstructionError, and left out without affecting the others.
package providerfactory
