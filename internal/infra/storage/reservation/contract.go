package reservation

import (
	"github.com/ashish9800079/turf-booking-plugin-sub000/pkg/dbmetrics"
)

// Reuse the dbmetrics executor interfaces so the repository joins the
// caller's transaction transparently.
type DBExecutor = dbmetrics.DBExecutor
type TxExecutor = dbmetrics.TxExecutor
