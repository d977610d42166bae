package middleware

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/prohmpiriya/bazaar-client/pkg/response"
)

// Fault is a forced failure for one route
type Fault struct {
	// Status is sent with Message as an error body; an empty Message sends
	// no body at all
	Status  int
	Message string
	// Drop closes the connection without writing a response
	Drop bool
	// Times limits how many requests are affected; 0 means until cleared
	Times int
}

// FaultInjector holds faults keyed by method and path
type FaultInjector struct {
	mu     sync.Mutex
	faults map[string]*Fault
}

// NewFaultInjector creates an empty fault injector
func NewFaultInjector() *FaultInjector {
	return &FaultInjector{faults: make(map[string]*Fault)}
}

// Set installs a fault for requests matching method and path exactly
func (f *FaultInjector) Set(method, path string, fault Fault) {
	f.mu.Lock()
	f.faults[method+" "+path] = &fault
	f.mu.Unlock()
}

// Clear removes every fault
func (f *FaultInjector) Clear() {
	f.mu.Lock()
	f.faults = make(map[string]*Fault)
	f.mu.Unlock()
}

func (f *FaultInjector) take(method, path string) (Fault, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	key := method + " " + path
	fault, ok := f.faults[key]
	if !ok {
		return Fault{}, false
	}
	if fault.Times > 0 {
		fault.Times--
		if fault.Times == 0 {
			delete(f.faults, key)
		}
	}
	return *fault, true
}

// Middleware applies installed faults before any handler runs
func (f *FaultInjector) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		fault, ok := f.take(c.Request.Method, c.Request.URL.Path)
		if !ok {
			c.Next()
			return
		}

		status := fault.Status
		if status == 0 {
			status = http.StatusInternalServerError
		}
		switch {
		case fault.Drop:
			if conn, _, err := c.Writer.Hijack(); err == nil {
				_ = conn.Close()
			}
			c.Abort()
		case fault.Message != "":
			response.Error(c, status, fault.Message)
		default:
			c.AbortWithStatus(status)
		}
	}
}
