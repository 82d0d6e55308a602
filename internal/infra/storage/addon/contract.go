package addon

import (
	"github.com/ashish9800079/turf-booking-plugin-sub000/pkg/dbmetrics"
)

type DBExecutor = dbmetrics.DBExecutor
