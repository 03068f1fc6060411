package entity

// Product producto terminado con lista de materiales (definición externa, solo lectura).
type Product struct {
	ID   string
	Name string
}
