package database

// Customer history queries
const (
	InsertBillSQL = `
		INSERT INTO customer_bills (customer_name, bill)
		VALUES ($1, $2)`

	GetBillsByCustomerSQL = `
		SELECT bill FROM customer_bills
		WHERE customer_name = $1
		ORDER BY id ASC`

	DeleteBillsByCustomerSQL = `
		DELETE FROM customer_bills WHERE customer_name = $1`

	DeleteAllBillsSQL = `
		DELETE FROM customer_bills`
)
