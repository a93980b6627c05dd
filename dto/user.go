package dto

import "github.com/Maxbrain0/echo_posts/validation"

// AddressShape is validated whenever a user payload carries an address.
var AddressShape = &validation.Shape{
	Name: "address",
	Fields: []validation.Field{
		{Name: "city", Kind: validation.String},
		{Name: "street", Kind: validation.String},
	},
}

// UserShape is the payload of POST /users (strict) and PATCH /users/:id (partial).
var UserShape = &validation.Shape{
	Name: "user",
	Fields: []validation.Field{
		{Name: "name", Kind: validation.String, Required: true, Rules: "min=1,max=100"},
		{Name: "email", Kind: validation.String, Required: true, Rules: "email"},
		{Name: "password", Kind: validation.String, Required: true, Rules: "min=8,max=72"},
		{Name: "address", Kind: validation.Object, Shape: AddressShape},
	},
}

type Address struct {
	City   *string
	Street *string
}

type User struct {
	Name     *string
	Email    *string
	Password *string
	Address  *Address
}

func (u *User) Load(v validation.Values) {
	u.Name = optional(v, "name")
	u.Email = optional(v, "email")
	u.Password = optional(v, "password")
	if addr, ok := v.Object("address"); ok {
		u.Address = &Address{
			City:   optional(addr, "city"),
			Street: optional(addr, "street"),
		}
	}
}
