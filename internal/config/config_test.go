package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
)

func TestSetDefaultsCoversGatewaySections(t *testing.T) {
	v := viper.New()
	setDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		t.Fatalf("unmarshal defaults failed: %v", err)
	}
	if cfg.Razorpay.Currency != "INR" {
		t.Fatalf("unexpected currency: %s", cfg.Razorpay.Currency)
	}
	if cfg.Shiprocket.APIBaseURL != "https://apiv2.shiprocket.in/v1/external" {
		t.Fatalf("unexpected shiprocket base url: %s", cfg.Shiprocket.APIBaseURL)
	}
	if cfg.Order.DeliveryDays != 7 || cfg.Order.CounterStart != 100000 {
		t.Fatalf("unexpected order defaults: %+v", cfg.Order)
	}
	if cfg.Queue.Queues["critical"] != 5 {
		t.Fatalf("unexpected queue weights: %+v", cfg.Queue.Queues)
	}
}

func TestCacheTTLFallbacks(t *testing.T) {
	var cfg CacheConfig
	if cfg.DefaultTTL() != time.Hour {
		t.Fatalf("default ttl want 1h got %s", cfg.DefaultTTL())
	}
	if cfg.DashboardTTL() != 200*time.Second {
		t.Fatalf("dashboard ttl want 200s got %s", cfg.DashboardTTL())
	}
	if cfg.ShiprocketTokenTTL() != 24*time.Hour {
		t.Fatalf("token ttl want 24h got %s", cfg.ShiprocketTokenTTL())
	}
	cfg.DashboardTTLSeconds = 30
	if cfg.DashboardTTL() != 30*time.Second {
		t.Fatalf("configured ttl ignored: %s", cfg.DashboardTTL())
	}
}
