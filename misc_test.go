package goconnection

import (
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type tUser struct {
	ID        uint
	Name      string
	CreatedAt time.Time
}

func (tUser) TableName() string {
	return "users"
}

var tUserKey = PrimaryKey[tUser]{
	{Column: "id", Get: func(u tUser) any { return u.ID }},
}

var tUserGetters = Getters[tUser]{
	"id":         func(u tUser) any { return u.ID },
	"name":       func(u tUser) any { return u.Name },
	"created_at": func(u tUser) any { return u.CreatedAt },
}

// anyOrFirstUser matches every user: its first conjunction has no conditions.
var anyOrFirstUser = Filter{{}, {{Column: "id", Operator: OperatorEQ, Value: 1}}}

// newUsers returns n users with ids 1..n.
func newUsers(n int) []tUser {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	ret := make([]tUser, 0, n)
	for i := 1; i <= n; i++ {
		ret = append(ret, tUser{
			ID:        uint(i),
			Name:      string(rune('a' + (i-1)%26)),
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
		})
	}

	return ret
}

func userIDs(users []tUser) []uint {
	ret := make([]uint, 0, len(users))
	for _, u := range users {
		ret = append(ret, u.ID)
	}

	return ret
}

func newGORMMySQLMock() (string, *gorm.DB, sqlmock.Sqlmock, error) {
	mockDB, mock, err := sqlmock.New()
	if err != nil {
		return "", nil, nil, err
	}

	dialector := mysql.New(mysql.Config{
		Conn:                      mockDB,
		SkipInitializeWithVersion: true,
	})

	db, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		return "", nil, nil, err
	}

	return "mysql", db.Debug(), mock, nil
}

func newGORMPostgresMock() (string, *gorm.DB, sqlmock.Sqlmock, error) {
	mockDB, mock, err := sqlmock.New()
	if err != nil {
		return "", nil, nil, err
	}

	dialector := postgres.New(postgres.Config{
		Conn: mockDB,
	})

	db, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		return "", nil, nil, err
	}

	return "postgres", db.Debug(), mock, nil
}
