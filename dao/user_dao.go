// dao/user_dao.go
package dao

import (
	"context"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"

	authz_errors "github.com/techverse/authz/errors"
	logger "github.com/techverse/authz/logging"
	"github.com/techverse/authz/model"
	authz_neo4j "github.com/techverse/authz/model/neo4j"
	helper_util "github.com/techverse/authz/util/helper"
)

type UserDAO struct {
	Driver neo4j.Driver
}

func NewUserDAO(driver neo4j.Driver) *UserDAO {
	dao := &UserDAO{Driver: driver}
	ctx := context.Background()
	if err := dao.EnsureUniqueConstraint(ctx); err != nil {
		logger.Fatal("Failed to ensure unique constraint for User", zap.Error(err))
	}
	return dao
}

func (dao *UserDAO) EnsureUniqueConstraint(ctx context.Context) error {
	logger.Info("Ensuring unique constraint on User ID")
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close()

	_, err := session.WriteTransaction(func(transaction neo4j.Transaction) (interface{}, error) {
		query := `
        CREATE CONSTRAINT unique_user_id IF NOT EXISTS
        FOR (u:` + authz_neo4j.LabelUser + `) REQUIRE u.id IS UNIQUE
        `
		_, err := transaction.Run(query, nil)
		return nil, err
	})

	if err != nil {
		logger.Error("Failed to ensure unique constraint on User ID", zap.Error(err))
		return err
	}

	return nil
}

// GetUser retrieves a user together with their role name and any explicit
// permission grants.
func (dao *UserDAO) GetUser(ctx context.Context, userID string) (*model.User, error) {
	start := time.Now()

	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close()

	query := `
    MATCH (u:` + authz_neo4j.LabelUser + ` {id: $id})
    OPTIONAL MATCH (u)-[:` + authz_neo4j.RelHasRole + `]->(r:` + authz_neo4j.LabelRole + `)
    OPTIONAL MATCH (u)-[:` + authz_neo4j.RelHasPermission + `]->(p:` + authz_neo4j.LabelPermission + `)
    RETURN u, r.name, collect(p.name)
    `
	result, err := session.Run(query, map[string]interface{}{"id": userID})
	if err != nil {
		logger.Error("Failed to execute get user query",
			zap.Error(err),
			zap.String("userID", userID),
			zap.Duration("duration", time.Since(start)))
		return nil, authz_errors.ErrDatabaseOperation
	}

	if result.Next() {
		values := result.Record().Values
		node := values[0].(neo4j.Node)
		user := mapNodeToUser(node)
		if roleName, ok := values[1].(string); ok {
			user.Role = roleName
		}
		user.Permissions = collectStrings(values[2])

		logger.Debug("User retrieved successfully",
			zap.String("userID", userID),
			zap.Duration("duration", time.Since(start)))
		return user, nil
	}

	logger.Warn("User not found",
		zap.String("userID", userID),
		zap.Duration("duration", time.Since(start)))
	return nil, authz_errors.ErrUserNotFound
}

// UpsertUser creates or updates a user record and reassigns their role edge.
// The role must already exist; a missing role leaves the user roleless.
func (dao *UserDAO) UpsertUser(ctx context.Context, user model.User) (string, error) {
	start := time.Now()
	logger.Info("Upserting user", zap.String("userID", user.ID))

	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close()

	_, err := session.WriteTransaction(func(transaction neo4j.Transaction) (interface{}, error) {
		query := `
        MERGE (u:` + authz_neo4j.LabelUser + ` {id: $id})
        ON CREATE SET u.` + authz_neo4j.AttrCreatedAt + ` = $now
        SET u.` + authz_neo4j.AttrName + ` = $name,
            u.username = $username,
            u.email = $email,
            u.` + authz_neo4j.AttrUpdatedAt + ` = $now
        WITH u
        OPTIONAL MATCH (u)-[oldRole:` + authz_neo4j.RelHasRole + `]->(:` + authz_neo4j.LabelRole + `)
        DELETE oldRole
        WITH DISTINCT u
        OPTIONAL MATCH (r:` + authz_neo4j.LabelRole + ` {` + authz_neo4j.AttrName + `: $role})
        FOREACH (_ IN CASE WHEN r IS NOT NULL THEN [1] ELSE [] END |
            MERGE (u)-[:` + authz_neo4j.RelHasRole + `]->(r)
        )
        RETURN u.id
        `
		params := map[string]interface{}{
			"id":       user.ID,
			"name":     user.Name,
			"username": user.Username,
			"email":    user.Email,
			"role":     user.Role,
			"now":      time.Now().Format(time.RFC3339),
		}

		result, err := transaction.Run(query, params)
		if err != nil {
			logger.Error("Failed to execute upsert user query", zap.Error(err))
			return nil, authz_errors.ErrDatabaseOperation
		}

		if result.Next() {
			return result.Record().Values[0], nil
		}
		return nil, authz_errors.ErrInternalServer
	})

	duration := time.Since(start)
	if err != nil {
		logger.Error("Failed to upsert user",
			zap.Error(err),
			zap.String("userID", user.ID),
			zap.Duration("duration", duration))
		return "", err
	}

	logger.Info("User upserted successfully",
		zap.String("userID", user.ID),
		zap.Duration("duration", duration))
	return user.ID, nil
}

// SetUserPermissions wholesale-replaces a user's explicit permission grants.
// Permission nodes are merged by name so grants never dangle.
func (dao *UserDAO) SetUserPermissions(ctx context.Context, userID string, permissions []string) error {
	start := time.Now()
	logger.Info("Setting user permissions",
		zap.String("userID", userID),
		zap.Int("count", len(permissions)))

	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close()

	_, err := session.WriteTransaction(func(transaction neo4j.Transaction) (interface{}, error) {
		query := `
        MATCH (u:` + authz_neo4j.LabelUser + ` {id: $id})
        SET u.` + authz_neo4j.AttrUpdatedAt + ` = $now
        WITH u
        OPTIONAL MATCH (u)-[old:` + authz_neo4j.RelHasPermission + `]->(:` + authz_neo4j.LabelPermission + `)
        DELETE old
        WITH DISTINCT u
        FOREACH (permissionName IN $permissions |
            MERGE (p:` + authz_neo4j.LabelPermission + ` {` + authz_neo4j.AttrName + `: permissionName})
            MERGE (u)-[:` + authz_neo4j.RelHasPermission + `]->(p)
        )
        RETURN u.id
        `
		params := map[string]interface{}{
			"id":          userID,
			"permissions": permissions,
			"now":         time.Now().Format(time.RFC3339),
		}

		result, err := transaction.Run(query, params)
		if err != nil {
			logger.Error("Failed to execute set user permissions query", zap.Error(err))
			return nil, authz_errors.ErrDatabaseOperation
		}

		if result.Next() {
			return result.Record().Values[0], nil
		}
		return nil, authz_errors.ErrUserNotFound
	})

	duration := time.Since(start)
	if err != nil {
		logger.Error("Failed to set user permissions",
			zap.Error(err),
			zap.String("userID", userID),
			zap.Duration("duration", duration))
		return err
	}

	logger.Info("User permissions set successfully",
		zap.String("userID", userID),
		zap.Duration("duration", duration))
	return nil
}

// Helper function to map Neo4j Node to User struct
func mapNodeToUser(node neo4j.Node) *model.User {
	props := node.Props
	user := &model.User{}

	user.ID, _ = props["id"].(string)
	user.Name, _ = props[authz_neo4j.AttrName].(string)
	user.Username, _ = props["username"].(string)
	user.Email, _ = props["email"].(string)
	if createdAt, ok := props[authz_neo4j.AttrCreatedAt].(string); ok {
		user.CreatedAt = helper_util.ParseTime(createdAt)
	}
	if updatedAt, ok := props[authz_neo4j.AttrUpdatedAt].(string); ok {
		user.UpdatedAt = helper_util.ParseTime(updatedAt)
	}

	return user
}

// collectStrings flattens a Cypher collect() value, skipping nulls that
// OPTIONAL MATCH leaves behind.
func collectStrings(value interface{}) []string {
	items, ok := value.([]interface{})
	if !ok {
		return nil
	}
	var out []string
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
