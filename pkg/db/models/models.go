package models

// All lists every sandbox table for AutoMigrate.
func All() []any {
	return []any{&User{}, &Product{}, &Cart{}, &Order{}}
}
