// Package graphql builds the GraphQL schema for users and todos at runtime.
package graphql

import (
	"github.com/graphql-go/graphql"
	"github.com/sirupsen/logrus"

	"github.com/mpaternostro/basic-crud/internal/service"
)

// Schema wires the GraphQL type system to the user and todo services.
type Schema struct {
	schema graphql.Schema
	users  *service.UserService
	todos  *service.TodoService
	logger *logrus.Logger
}

// NewSchema builds the executable schema.
func NewSchema(users *service.UserService, todos *service.TodoService, logger *logrus.Logger) (*Schema, error) {
	s := &Schema{users: users, todos: todos, logger: logger}

	userType := s.defineUserType()
	todoType := s.defineTodoType()

	// The relationship is circular, so the cross fields are attached after
	// both types exist.
	userType.AddFieldConfig("todos", &graphql.Field{
		Type:    graphql.NewList(todoType),
		Resolve: s.resolveUserTodos,
	})
	todoType.AddFieldConfig("user", &graphql.Field{
		Type:    userType,
		Resolve: s.resolveTodoUser,
	})

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"whoAmI": &graphql.Field{
				Type:    userType,
				Resolve: s.resolveWhoAmI,
			},
			"user": &graphql.Field{
				Type: userType,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: s.resolveUser,
			},
			"users": &graphql.Field{
				Type:    graphql.NewList(userType),
				Resolve: s.resolveUsers,
			},
			"todo": &graphql.Field{
				Type: todoType,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: s.resolveTodo,
			},
			"todos": &graphql.Field{
				Type:    graphql.NewList(todoType),
				Resolve: s.resolveTodos,
			},
		},
	})

	mutationType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Mutation",
		Fields: graphql.Fields{
			"createTodo": &graphql.Field{
				Type: todoType,
				Args: graphql.FieldConfigArgument{
					"createTodoInput": &graphql.ArgumentConfig{Type: graphql.NewNonNull(createTodoInputType)},
				},
				Resolve: s.resolveCreateTodo,
			},
			"updateTodo": &graphql.Field{
				Type: todoType,
				Args: graphql.FieldConfigArgument{
					"updateTodoInput": &graphql.ArgumentConfig{Type: graphql.NewNonNull(updateTodoInputType)},
				},
				Resolve: s.resolveUpdateTodo,
			},
			"removeTodo": &graphql.Field{
				Type: todoType,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: s.resolveRemoveTodo,
			},
			"createUser": &graphql.Field{
				Type: userType,
				Args: graphql.FieldConfigArgument{
					"createUserInput": &graphql.ArgumentConfig{Type: graphql.NewNonNull(createUserInputType)},
				},
				Resolve: s.resolveCreateUser,
			},
			"updateUser": &graphql.Field{
				Type: userType,
				Args: graphql.FieldConfigArgument{
					"updateUserInput": &graphql.ArgumentConfig{Type: graphql.NewNonNull(updateUserInputType)},
				},
				Resolve: s.resolveUpdateUser,
			},
			"removeUser": &graphql.Field{
				Type: userType,
				Args: graphql.FieldConfigArgument{
					"removeUserInput": &graphql.ArgumentConfig{Type: graphql.NewNonNull(removeUserInputType)},
				},
				Resolve: s.resolveRemoveUser,
			},
		},
	})

	schema, err := graphql.NewSchema(graphql.SchemaConfig{
		Query:    queryType,
		Mutation: mutationType,
	})
	if err != nil {
		return nil, err
	}
	s.schema = schema
	return s, nil
}

// Schema returns the executable graphql schema.
func (s *Schema) Schema() *graphql.Schema {
	return &s.schema
}

func (s *Schema) defineUserType() *graphql.Object {
	return graphql.NewObject(graphql.ObjectConfig{
		Name:        "User",
		Description: "A registered user. Password and refresh token hashes are never exposed.",
		Fields: graphql.Fields{
			"id":        &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
			"username":  &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"createdAt": &graphql.Field{Type: graphql.NewNonNull(graphql.DateTime)},
			"updatedAt": &graphql.Field{Type: graphql.NewNonNull(graphql.DateTime)},
		},
	})
}

func (s *Schema) defineTodoType() *graphql.Object {
	return graphql.NewObject(graphql.ObjectConfig{
		Name: "Todo",
		Fields: graphql.Fields{
			"id":          &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
			"title":       &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"isCompleted": &graphql.Field{Type: graphql.NewNonNull(graphql.Boolean)},
			"createdAt":   &graphql.Field{Type: graphql.NewNonNull(graphql.DateTime)},
			"updatedAt":   &graphql.Field{Type: graphql.NewNonNull(graphql.DateTime)},
		},
	})
}
