package catalog

import "github.com/BECOF-Cons/becof-website-sub000/pkg/dbmetrics"

// DBExecutor interface for database operations
type DBExecutor = dbmetrics.Querier
