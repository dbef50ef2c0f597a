package rbac

import (
	"errors"
	"fmt"
	"sort"
)

// Operation identifies a protected API operation.
type Operation string

const (
	OpListUsers  Operation = "users.list"
	OpCreateUser Operation = "users.create"
	OpUpdateUser Operation = "users.update"
	OpDeleteUser Operation = "users.delete"

	OpListProducts  Operation = "products.list"
	OpGetProduct    Operation = "products.get"
	OpCreateProduct Operation = "products.create"
	OpUpdateProduct Operation = "products.update"
	OpDeleteProduct Operation = "products.delete"

	OpListRoles       Operation = "roles.list"
	OpGetRole         Operation = "roles.get"
	OpCreateRole      Operation = "roles.create"
	OpUpdateRole      Operation = "roles.update"
	OpDeleteRole      Operation = "roles.delete"
	OpListPermissions Operation = "roles.permissions"

	OpListSales  Operation = "sales.list"
	OpGetSale    Operation = "sales.get"
	OpCreateSale Operation = "sales.create"
	OpDeleteSale Operation = "sales.delete"

	OpReportDashboard Operation = "reports.dashboard"
	OpReportUsers     Operation = "reports.users"
	OpReportProducts  Operation = "reports.products"
)

// RouteTable binds every protected operation to exactly one permission.
type RouteTable map[Operation]string

// DefaultRouteTable returns the bindings used by the API.
func DefaultRouteTable() RouteTable {
	return RouteTable{
		OpListUsers:  PermReadUsers,
		OpCreateUser: PermCreateUsers,
		OpUpdateUser: PermUpdateUsers,
		OpDeleteUser: PermDeleteUsers,

		OpListProducts:  PermReadProducts,
		OpGetProduct:    PermReadProducts,
		OpCreateProduct: PermCreateProducts,
		OpUpdateProduct: PermUpdateProducts,
		OpDeleteProduct: PermDeleteProducts,

		OpListRoles:       PermManageRoles,
		OpGetRole:         PermManageRoles,
		OpCreateRole:      PermManageRoles,
		OpUpdateRole:      PermManageRoles,
		OpDeleteRole:      PermManageRoles,
		OpListPermissions: PermManageRoles,

		// Sales reuse the product permissions.
		OpListSales:  PermReadProducts,
		OpGetSale:    PermReadProducts,
		OpCreateSale: PermCreateProducts,
		OpDeleteSale: PermDeleteProducts,

		OpReportDashboard: PermViewReports,
		OpReportUsers:     PermViewReports,
		OpReportProducts:  PermViewReports,
	}
}

// Permission returns the permission bound to op.
func (t RouteTable) Permission(op Operation) (string, bool) {
	perm, ok := t[op]
	return perm, ok
}

// Operations returns the bound operations in sorted order.
func (t RouteTable) Operations() []Operation {
	ops := make([]Operation, 0, len(t))
	for op := range t {
		ops = append(ops, op)
	}
	sort.Slice(ops, func(i, j int) bool { return ops[i] < ops[j] })
	return ops
}

// Validate checks every binding against the registry. A binding to an
// unknown permission would deny every request, so it is rejected here.
func (t RouteTable) Validate(reg *Registry) error {
	if len(t) == 0 {
		return errors.New("rbac: route table is empty")
	}
	var errs []error
	for _, op := range t.Operations() {
		perm := t[op]
		switch {
		case op == "":
			errs = append(errs, errors.New("rbac: empty operation name"))
		case perm == "":
			errs = append(errs, fmt.Errorf("rbac: operation %q has no permission", op))
		case !reg.Has(perm):
			errs = append(errs, fmt.Errorf("rbac: operation %q bound to unknown permission %q", op, perm))
		}
	}
	return errors.Join(errs...)
}
