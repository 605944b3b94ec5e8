package handler

import (
	"time"

	"github.com/Mkilord/java-intensive-y-lab-sub000/internal/domain/car"
	"github.com/Mkilord/java-intensive-y-lab-sub000/internal/domain/order"
	"github.com/Mkilord/java-intensive-y-lab-sub000/internal/domain/user"
)

type carView struct {
	ID           int64  `json:"id"`
	Make         string `json:"make"`
	Model        string `json:"model"`
	Year         int    `json:"year"`
	Price        int64  `json:"price"`
	State        string `json:"state"`
	StateDisplay string `json:"state_display"`
}

func toCarView(c *car.Car) carView {
	return carView{
		ID:           c.ID,
		Make:         c.Make,
		Model:        c.Model,
		Year:         c.Year,
		Price:        c.Price,
		State:        c.State.String(),
		StateDisplay: car.DisplayName(c.State),
	}
}

func toCarViews(cars []car.Car) []carView {
	out := make([]carView, 0, len(cars))
	for i := range cars {
		out = append(out, toCarView(&cars[i]))
	}
	return out
}

type orderView struct {
	ID         int64     `json:"id"`
	Kind       string    `json:"kind"`
	Date       time.Time `json:"date"`
	Status     string    `json:"status"`
	CustomerID int64     `json:"customer_id"`
	CarID      int64     `json:"car_id"`
}

func toOrderView(o *order.Order) orderView {
	return orderView{
		ID:         o.ID,
		Kind:       string(o.Kind),
		Date:       o.Date,
		Status:     o.Status.String(),
		CustomerID: o.CustomerID,
		CarID:      o.CarID,
	}
}

func toOrderViews(orders []order.Order) []orderView {
	out := make([]orderView, 0, len(orders))
	for i := range orders {
		out = append(out, toOrderView(&orders[i]))
	}
	return out
}

// userView never carries the password hash.
type userView struct {
	ID       int64  `json:"id"`
	Role     string `json:"role"`
	Username string `json:"username"`
	Name     string `json:"name"`
	Surname  string `json:"surname"`
	Phone    string `json:"phone,omitempty"`
	Email    string `json:"email,omitempty"`
}

func toUserView(u *user.User) userView {
	return userView{
		ID:       u.ID,
		Role:     u.Role.String(),
		Username: u.Username,
		Name:     u.Name,
		Surname:  u.Surname,
		Phone:    u.Phone,
		Email:    u.Email,
	}
}

func toUserViews(users []user.User) []userView {
	out := make([]userView, 0, len(users))
	for i := range users {
		out = append(out, toUserView(&users[i]))
	}
	return out
}
