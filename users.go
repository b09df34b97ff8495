package redmine

import (
	"context"
	"fmt"
)

type userEnvelope struct {
	User *UserRequest `json:"user"`
}

// CurrentUser retrieves the account the API key (or impersonated login)
// resolves to.
func (c *Client) CurrentUser(ctx context.Context) (*User, error) {
	var env struct {
		User User `json:"user"`
	}
	if err := c.http.Get(ctx, "/users/current.json", &env); err != nil {
		return nil, err
	}
	return &env.User, nil
}

// GetUser retrieves a user by id.
func (c *Client) GetUser(ctx context.Context, id int) (*User, error) {
	var env struct {
		User User `json:"user"`
	}
	if err := c.http.Get(ctx, fmt.Sprintf("/users/%d.json", id), &env); err != nil {
		return nil, err
	}
	return &env.User, nil
}

// ListUsers retrieves all users matching the filter, following pagination
// until the server-reported total is reached. Requires admin privileges.
func (c *Client) ListUsers(ctx context.Context, filter *UserFilter) ([]User, error) {
	values, err := filterValues(filter)
	if err != nil {
		return nil, err
	}
	return listAll[User](ctx, c, "/users.json", values, "users")
}

// CreateUser creates a new user account. Requires admin privileges.
func (c *Client) CreateUser(ctx context.Context, req *UserRequest) (*User, error) {
	var env struct {
		User User `json:"user"`
	}
	if err := c.http.Post(ctx, "/users.json", &userEnvelope{User: req}, &env); err != nil {
		return nil, err
	}
	return &env.User, nil
}

// UpdateUser applies a partial update to a user account.
func (c *Client) UpdateUser(ctx context.Context, id int, req *UserRequest) error {
	return c.http.Put(ctx, fmt.Sprintf("/users/%d.json", id), &userEnvelope{User: req}, nil)
}

// DeleteUser deletes a user account.
func (c *Client) DeleteUser(ctx context.Context, id int) error {
	return c.http.Delete(ctx, fmt.Sprintf("/users/%d.json", id))
}
