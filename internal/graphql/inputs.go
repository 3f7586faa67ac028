package graphql

import (
	"github.com/graphql-go/graphql"

	"github.com/mpaternostro/basic-crud/internal/dto"
)

var createTodoInputType = graphql.NewInputObject(graphql.InputObjectConfig{
	Name: "CreateTodoInput",
	Fields: graphql.InputObjectConfigFieldMap{
		"title": &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
	},
})

var updateTodoInputType = graphql.NewInputObject(graphql.InputObjectConfig{
	Name: "UpdateTodoInput",
	Fields: graphql.InputObjectConfigFieldMap{
		"id":          &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.ID)},
		"title":       &graphql.InputObjectFieldConfig{Type: graphql.String},
		"isCompleted": &graphql.InputObjectFieldConfig{Type: graphql.Boolean},
	},
})

var createUserInputType = graphql.NewInputObject(graphql.InputObjectConfig{
	Name: "CreateUserInput",
	Fields: graphql.InputObjectConfigFieldMap{
		"username": &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
		"password": &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
	},
})

var updateUserInputType = graphql.NewInputObject(graphql.InputObjectConfig{
	Name: "UpdateUserInput",
	Fields: graphql.InputObjectConfigFieldMap{
		"id":              &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.ID)},
		"currentPassword": &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
		"username":        &graphql.InputObjectFieldConfig{Type: graphql.String},
		"password":        &graphql.InputObjectFieldConfig{Type: graphql.String},
	},
})

var removeUserInputType = graphql.NewInputObject(graphql.InputObjectConfig{
	Name: "RemoveUserInput",
	Fields: graphql.InputObjectConfigFieldMap{
		"id":              &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.ID)},
		"currentPassword": &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
	},
})

// inputMap extracts the named input object from resolver args.
func inputMap(args map[string]any, key string) map[string]any {
	m, _ := args[key].(map[string]any)
	return m
}

func stringField(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return s
}

func optStringField(m map[string]any, key string) *string {
	if v, ok := m[key].(string); ok {
		return &v
	}
	return nil
}

func optBoolField(m map[string]any, key string) *bool {
	if v, ok := m[key].(bool); ok {
		return &v
	}
	return nil
}

func decodeCreateTodoInput(args map[string]any) dto.CreateTodoInput {
	m := inputMap(args, "createTodoInput")
	return dto.CreateTodoInput{Title: stringField(m, "title")}
}

func decodeUpdateTodoInput(args map[string]any) dto.UpdateTodoInput {
	m := inputMap(args, "updateTodoInput")
	return dto.UpdateTodoInput{
		ID:          stringField(m, "id"),
		Title:       optStringField(m, "title"),
		IsCompleted: optBoolField(m, "isCompleted"),
	}
}

func decodeCreateUserInput(args map[string]any) dto.CreateUserInput {
	m := inputMap(args, "createUserInput")
	return dto.CreateUserInput{
		Username: stringField(m, "username"),
		Password: stringField(m, "password"),
	}
}

func decodeUpdateUserInput(args map[string]any) dto.UpdateUserInput {
	m := inputMap(args, "updateUserInput")
	return dto.UpdateUserInput{
		ID:              stringField(m, "id"),
		CurrentPassword: stringField(m, "currentPassword"),
		Username:        optStringField(m, "username"),
		Password:        optStringField(m, "password"),
	}
}

func decodeRemoveUserInput(args map[string]any) dto.RemoveUserInput {
	m := inputMap(args, "removeUserInput")
	return dto.RemoveUserInput{
		ID:              stringField(m, "id"),
		CurrentPassword: stringField(m, "currentPassword"),
	}
}
