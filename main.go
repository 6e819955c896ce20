package main

import "github.com/payrollhq/payroll-management/cmd"

func main() {
	cmd.Execute()
}
