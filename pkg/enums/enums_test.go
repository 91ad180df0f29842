package enums

import "testing"

func TestParseRole(t *testing.T) {
	role, err := ParseRole("Department Manager")
	if err != nil {
		t.Fatalf("parse role: %v", err)
	}
	if role != RoleDepartmentManager {
		t.Fatalf("unexpected role %s", role)
	}

	if _, err := ParseRole("department manager"); err == nil {
		t.Fatal("role matching must be exact, lowercase input should fail")
	}
	if _, err := ParseRole(""); err == nil {
		t.Fatal("empty role should fail")
	}
}

func TestRoleIsValid(t *testing.T) {
	for _, role := range Roles() {
		if !role.IsValid() {
			t.Fatalf("catalog role %s reported invalid", role)
		}
	}
	if Role("Intern").IsValid() {
		t.Fatal("unknown role reported valid")
	}
}

func TestParseOrderStatus(t *testing.T) {
	status, err := ParseOrderStatus("In Transit")
	if err != nil {
		t.Fatalf("parse status: %v", err)
	}
	if status != OrderStatusInTransit {
		t.Fatalf("unexpected status %s", status)
	}

	if _, err := ParseOrderStatus("Bogus"); err == nil {
		t.Fatal("expected invalid status to fail")
	}
}
