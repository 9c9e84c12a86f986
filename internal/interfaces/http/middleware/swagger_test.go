package middleware

import (
	"net"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/coursebridge/backend/internal/infrastructure/config"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func swaggerRouter(cfg config.SwaggerConfig) *gin.Engine {
	router := gin.New()
	router.GET("/swagger/*any", SwaggerProtection(cfg), func(c *gin.Context) {
		c.String(http.StatusOK, "docs")
	})
	return router
}

func swaggerRequest(remoteIP string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/swagger/index.html", nil)
	req.RemoteAddr = remoteIP + ":5555"
	return req
}

func TestSwaggerProtection(t *testing.T) {
	tests := []struct {
		name   string
		cfg    config.SwaggerConfig
		ip     string
		status int
	}{
		{"disabled", config.SwaggerConfig{Enabled: false}, "127.0.0.1", http.StatusNotFound},
		{"enabled without allow-list", config.SwaggerConfig{Enabled: true}, "203.0.113.9", http.StatusOK},
		{"exact ip allowed", config.SwaggerConfig{Enabled: true, AllowedIPs: []string{"10.1.2.3"}}, "10.1.2.3", http.StatusOK},
		{"exact ip denied", config.SwaggerConfig{Enabled: true, AllowedIPs: []string{"10.1.2.3"}}, "10.1.2.4", http.StatusForbidden},
		{"cidr allowed", config.SwaggerConfig{Enabled: true, AllowedIPs: []string{"192.168.0.0/16"}}, "192.168.44.1", http.StatusOK},
		{"invalid entries ignored", config.SwaggerConfig{Enabled: true, AllowedIPs: []string{"nonsense", "10.0.0.0/33"}}, "10.0.0.1", http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(swaggerRouter(tt.cfg), swaggerRequest(tt.ip))
			assert.Equal(t, tt.status, w.Code)
		})
	}
}

func TestIsIPAllowed(t *testing.T) {
	_, network, _ := net.ParseCIDR("172.16.0.0/12")

	assert.True(t, isIPAllowed(net.ParseIP("172.20.1.1"), []*net.IPNet{network}))
	assert.False(t, isIPAllowed(net.ParseIP("172.32.0.1"), []*net.IPNet{network}))
	assert.False(t, isIPAllowed(nil, []*net.IPNet{network}))
}
