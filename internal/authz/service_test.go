package authz

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupAuthzServiceTest(t *testing.T) *Service {
	t.Helper()
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"), time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	svc, err := NewService(db)
	if err != nil {
		t.Fatalf("new authz service failed: %v", err)
	}
	if err := svc.BootstrapBuiltinRoles(); err != nil {
		t.Fatalf("bootstrap roles failed: %v", err)
	}
	return svc
}

func TestBuiltinCatalogRole(t *testing.T) {
	svc := setupAuthzServiceTest(t)
	if err := svc.SetAdminRoles(1, []string{RoleCatalog}); err != nil {
		t.Fatalf("set admin roles failed: %v", err)
	}

	cases := []struct {
		path   string
		method string
		allow  bool
	}{
		{"/api/v1/admin/products/42", "put", true},
		{"/api/v1/admin/products", "POST", true},
		{"/api/v1/admin/dashboard/stats", "GET", true},
		{"/api/v1/admin/orders", "GET", false},
		{"/api/v1/admin/payments/pay_1/refund", "POST", false},
	}
	for _, tc := range cases {
		allow, err := svc.EnforceAdmin(1, tc.path, tc.method)
		if err != nil {
			t.Fatalf("enforce %s %s failed: %v", tc.method, tc.path, err)
		}
		if allow != tc.allow {
			t.Fatalf("%s %s: want allow=%v got %v", tc.method, tc.path, tc.allow, allow)
		}
	}
}

func TestFinanceRoleRefund(t *testing.T) {
	svc := setupAuthzServiceTest(t)
	if err := svc.SetAdminRoles(7, []string{"Finance"}); err != nil {
		t.Fatalf("set admin roles failed: %v", err)
	}
	allow, err := svc.EnforceAdmin(7, "/api/v1/admin/payments/pay_1/refund", "POST")
	if err != nil || !allow {
		t.Fatalf("finance should refund, allow=%v err=%v", allow, err)
	}
	allow, err = svc.EnforceAdmin(7, "/api/v1/admin/products/1", "DELETE")
	if err != nil || allow {
		t.Fatalf("finance should not delete products, allow=%v err=%v", allow, err)
	}
}

func TestSetAdminRolesOverride(t *testing.T) {
	svc := setupAuthzServiceTest(t)
	if err := svc.SetAdminRoles(2, []string{RoleSupport}); err != nil {
		t.Fatalf("set first role failed: %v", err)
	}
	if err := svc.SetAdminRoles(2, []string{RoleFinance}); err != nil {
		t.Fatalf("set second role failed: %v", err)
	}
	roles, err := svc.GetAdminRoles(2)
	if err != nil {
		t.Fatalf("get roles failed: %v", err)
	}
	if len(roles) != 1 || roles[0] != "role:finance" {
		t.Fatalf("roles want [role:finance], got=%v", roles)
	}
}

func TestBootstrapIsIdempotent(t *testing.T) {
	svc := setupAuthzServiceTest(t)
	if err := svc.BootstrapBuiltinRoles(); err != nil {
		t.Fatalf("second bootstrap failed: %v", err)
	}
	policies, err := svc.RolePolicies(RoleCatalog)
	if err != nil {
		t.Fatalf("role policies failed: %v", err)
	}
	if len(policies) != len(BuiltinRoleSeeds()[0].Policies) {
		t.Fatalf("unexpected policy count: %d", len(policies))
	}
}

func TestNormalizeObject(t *testing.T) {
	cases := map[string]string{
		"":                     "/",
		"/api/v1":              "/",
		"/api/v1/admin/orders": "/admin/orders",
		"admin/users":          "/admin/users",
	}
	for in, want := range cases {
		if got := NormalizeObject(in); got != want {
			t.Fatalf("NormalizeObject(%q) = %q, want %q", in, got, want)
		}
	}
}
