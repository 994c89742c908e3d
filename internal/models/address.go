package models

// Country — страна присутствия компании.
type Country string

const (
	CountryUSA Country = "USA"
	CountryLEB Country = "LEB"
	CountryUAE Country = "UAE"
)

// Valid сообщает, является ли значение известной страной.
func (c Country) Valid() bool {
	switch c {
	case CountryUSA, CountryLEB, CountryUAE:
		return true
	}

	return false
}

// Address — почтовый адрес филиала или сотрудника.
type Address struct {
	ID      int64
	Street  string
	City    string
	State   string
	ZipCode string
	Country Country
}
