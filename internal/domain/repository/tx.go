package repository

// TxRepos repositorios atados a una misma transacción.
type TxRepos struct {
	Products  ProductRepository
	Movements InventoryMovementRepository
	Sales     SaleRepository
	Registers CashRegisterRepository
	Customers CustomerRepository
	Users     UserRepository
}
