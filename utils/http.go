// utils/http.go
package utils

import (
	"net/http"
	"time"
)

// HTTPClient is shared by everything fetching off-chain proof metadata.
var HTTPClient = &http.Client{
	Timeout: 15 * time.Second,
}
