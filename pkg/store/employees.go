package store

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
)

type Employee struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Position  string `json:"position"`
	HireDate  string `json:"hire_date"`
	IsActive  bool   `json:"is_active"`
}

// EmployeeInput is the body for both create and full update.
type EmployeeInput struct {
	FirstName string `json:"first_name" validate:"required,max=100"`
	LastName  string `json:"last_name" validate:"required,max=100"`
	Email     string `json:"email" validate:"required,email"`
	Phone     string `json:"phone" validate:"omitempty,max=32"`
	Position  string `json:"position" validate:"required,max=100"`
	HireDate  string `json:"hire_date" validate:"omitempty,datetime=2006-01-02"`
	IsActive  bool   `json:"is_active"`
}

func (c Client) ListEmployees(ctx context.Context) ([]Employee, error) {
	items, err := decodeList[Employee](ctx, c, "/employees/", nil)
	if err != nil {
		return nil, fmt.Errorf("list employees: %w", err)
	}
	return items, nil
}

func (c Client) GetEmployee(ctx context.Context, id int64) (Employee, error) {
	var out Employee
	if _, err := c.doJSON(ctx, http.MethodGet, employeePath(id), nil, nil, &out); err != nil {
		return Employee{}, fmt.Errorf("get employee %d: %w", id, err)
	}
	return out, nil
}

func (c Client) CreateEmployee(ctx context.Context, in EmployeeInput) (Employee, error) {
	if err := Validate(in); err != nil {
		return Employee{}, err
	}
	var out Employee
	if _, err := c.doJSON(ctx, http.MethodPost, "/employees/", nil, in, &out); err != nil {
		return Employee{}, fmt.Errorf("create employee: %w", err)
	}
	return out, nil
}

func (c Client) UpdateEmployee(ctx context.Context, id int64, in EmployeeInput) (Employee, error) {
	if err := Validate(in); err != nil {
		return Employee{}, err
	}
	var out Employee
	if _, err := c.doJSON(ctx, http.MethodPut, employeePath(id), nil, in, &out); err != nil {
		return Employee{}, fmt.Errorf("update employee %d: %w", id, err)
	}
	return out, nil
}

func (c Client) DeleteEmployee(ctx context.Context, id int64) error {
	if _, err := c.doJSON(ctx, http.MethodDelete, employeePath(id), nil, nil, nil); err != nil {
		return fmt.Errorf("delete employee %d: %w", id, err)
	}
	return nil
}

func employeePath(id int64) string {
	return "/employees/" + strconv.FormatInt(id, 10) + "/"
}
