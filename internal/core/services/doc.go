// Package services contains the application core: semantic search,
// reply drafting, index building and style profile building. Services
// depend on driven ports only and are exposed through the driving
// port interfaces.
package services
