package employee

type CreateEmployeeRequest struct {
	FullName     string `json:"full_name" binding:"required"`
	Role         string `json:"role" binding:"required,oneof=ADMIN EMPLOYEE"`
	Department   string `json:"department" binding:"required"`
	JobTitle     string `json:"job_title" binding:"required"`
	Phone        string `json:"phone"`
	BaseSalary   int64  `json:"base_salary" binding:"required,min=0"`
	PensionOptIn bool   `json:"pension_opt_in"`
	HireDate     string `json:"hire_date" binding:"required"`
}

type GetEmployeesFilterRequest struct {
	Q string `form:"q"`
}

type UpdateEmployeeRequest struct {
	FullName        string  `json:"full_name" binding:"required"`
	Role            string  `json:"role" binding:"required,oneof=ADMIN EMPLOYEE"`
	Department      string  `json:"department" binding:"required"`
	JobTitle        string  `json:"job_title" binding:"required"`
	Phone           string  `json:"phone"`
	BaseSalary      int64   `json:"base_salary" binding:"required,min=0"`
	PensionOptIn    bool    `json:"pension_opt_in"`
	ResignationDate *string `json:"resignation_date"`
}

type EmployeeResponse struct {
	ID              string  `json:"id"`
	EmployeeNo      string  `json:"employee_no"`
	FullName        string  `json:"full_name"`
	Role            string  `json:"role"`
	Department      string  `json:"department"`
	JobTitle        string  `json:"job_title"`
	Phone           string  `json:"phone,omitempty"`
	BaseSalary      int64   `json:"base_salary"`
	PensionOptIn    bool    `json:"pension_opt_in"`
	HireDate        string  `json:"hire_date"`
	ResignationDate *string `json:"resignation_date,omitempty"`
}
