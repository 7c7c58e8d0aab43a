// dao/role_dao.go
package dao

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"

	authz_errors "github.com/techverse/authz/errors"
	logger "github.com/techverse/authz/logging"
	"github.com/techverse/authz/model"
	authz_neo4j "github.com/techverse/authz/model/neo4j"
	helper_util "github.com/techverse/authz/util/helper"
)

type RoleDAO struct {
	Driver neo4j.Driver
}

func NewRoleDAO(driver neo4j.Driver) *RoleDAO {
	dao := &RoleDAO{Driver: driver}
	ctx := context.Background()
	if err := dao.EnsureUniqueConstraint(ctx); err != nil {
		logger.Fatal("Failed to ensure unique constraint for Role", zap.Error(err))
	}
	return dao
}

func (dao *RoleDAO) EnsureUniqueConstraint(ctx context.Context) error {
	logger.Info("Ensuring unique constraint on Role ID")
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close()

	_, err := session.WriteTransaction(func(transaction neo4j.Transaction) (interface{}, error) {
		query := `
        CREATE CONSTRAINT unique_role_id IF NOT EXISTS
        FOR (r:` + authz_neo4j.LabelRole + `) REQUIRE r.id IS UNIQUE
        `
		_, err := transaction.Run(query, nil)
		return nil, err
	})

	if err != nil {
		logger.Error("Failed to ensure unique constraint on Role ID", zap.Error(err))
		return err
	}

	return nil
}

func (dao *RoleDAO) CreateRole(ctx context.Context, role model.Role) (string, error) {
	start := time.Now()
	logger.Info("Creating new role", zap.String("roleName", role.Name))
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close()

	if role.ID == "" {
		role.ID = uuid.New().String()
	}

	result, err := session.WriteTransaction(func(transaction neo4j.Transaction) (interface{}, error) {
		query := `
        MERGE (r:` + authz_neo4j.LabelRole + ` {id: $id})
        ON CREATE SET
            r.` + authz_neo4j.AttrName + ` = $name,
            r.description = $description,
            r.` + authz_neo4j.AttrCreatedAt + ` = $createdAt,
            r.` + authz_neo4j.AttrUpdatedAt + ` = $updatedAt
        WITH r
        FOREACH (permissionName IN $permissions |
            MERGE (p:` + authz_neo4j.LabelPermission + ` {` + authz_neo4j.AttrName + `: permissionName})
            MERGE (r)-[:` + authz_neo4j.RelHasPermission + `]->(p)
        )
        RETURN r.id as id
        `

		now := time.Now().Format(time.RFC3339)
		params := map[string]interface{}{
			"id":          role.ID,
			"name":        role.Name,
			"description": role.Description,
			"permissions": role.Permissions,
			"createdAt":   now,
			"updatedAt":   now,
		}

		logger.Debug("Create role query",
			zap.String("query", query),
			zap.Any("params", params))

		result, err := transaction.Run(query, params)
		if err != nil {
			logger.Error("Failed to execute create role query", zap.Error(err))
			return nil, authz_errors.ErrDatabaseOperation
		}

		if result.Next() {
			return result.Record().Values[0], nil
		}

		return nil, authz_errors.ErrInternalServer
	})

	duration := time.Since(start)
	if err != nil {
		logger.Error("Failed to create role",
			zap.Error(err),
			zap.String("roleName", role.Name),
			zap.Duration("duration", duration))
		return "", err
	}

	roleID, _ := result.(string)
	logger.Info("Role created successfully",
		zap.String("roleID", roleID),
		zap.Duration("duration", duration))

	return roleID, nil
}

func (dao *RoleDAO) UpdateRole(ctx context.Context, role model.Role) (*model.Role, error) {
	start := time.Now()
	logger.Info("Updating role", zap.String("roleID", role.ID))

	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close()

	var updatedRole *model.Role
	_, err := session.WriteTransaction(func(transaction neo4j.Transaction) (interface{}, error) {
		query := `
        MATCH (r:` + authz_neo4j.LabelRole + ` {id: $id})
        SET r.` + authz_neo4j.AttrName + ` = $name,
            r.description = $description,
            r.` + authz_neo4j.AttrUpdatedAt + ` = $updatedAt
        WITH r
        OPTIONAL MATCH (r)-[oldPermRel:` + authz_neo4j.RelHasPermission + `]->(:` + authz_neo4j.LabelPermission + `)
        DELETE oldPermRel
        WITH DISTINCT r
        FOREACH (permissionName IN $permissions |
            MERGE (p:` + authz_neo4j.LabelPermission + ` {` + authz_neo4j.AttrName + `: permissionName})
            MERGE (r)-[:` + authz_neo4j.RelHasPermission + `]->(p)
        )
        RETURN r
        `
		params := map[string]interface{}{
			"id":          role.ID,
			"name":        role.Name,
			"description": role.Description,
			"permissions": role.Permissions,
			"updatedAt":   time.Now().Format(time.RFC3339),
		}

		logger.Debug("Update role query", zap.String("query", query), zap.Any("params", params))

		result, err := transaction.Run(query, params)
		if err != nil {
			logger.Error("Failed to execute update role query", zap.Error(err))
			return nil, authz_errors.ErrDatabaseOperation
		}

		if result.Next() {
			node := result.Record().Values[0].(neo4j.Node)
			updatedRole = mapNodeToRole(node)
			updatedRole.Permissions = role.Permissions
			return nil, nil
		}

		return nil, authz_errors.ErrRoleNotFound
	})

	duration := time.Since(start)
	if err != nil {
		logger.Error("Failed to update role",
			zap.Error(err),
			zap.String("roleID", role.ID),
			zap.Duration("duration", duration))
		return nil, err
	}

	logger.Info("Role updated successfully",
		zap.String("roleID", role.ID),
		zap.Duration("duration", duration))

	return updatedRole, nil
}

func (dao *RoleDAO) DeleteRole(ctx context.Context, roleID string) error {
	start := time.Now()
	logger.Info("Deleting role", zap.String("roleID", roleID))

	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close()

	_, err := session.WriteTransaction(func(transaction neo4j.Transaction) (interface{}, error) {
		query := `
        MATCH (r:` + authz_neo4j.LabelRole + ` {id: $id})
        DETACH DELETE r
        `
		result, err := transaction.Run(query, map[string]interface{}{"id": roleID})
		if err != nil {
			return nil, authz_errors.ErrDatabaseOperation
		}

		summary, err := result.Consume()
		if err != nil {
			return nil, authz_errors.ErrDatabaseOperation
		}

		if summary.Counters().NodesDeleted() == 0 {
			return nil, authz_errors.ErrRoleNotFound
		}

		return nil, nil
	})

	duration := time.Since(start)
	if err != nil {
		logger.Error("Failed to delete role",
			zap.Error(err),
			zap.String("roleID", roleID),
			zap.Duration("duration", duration))
		return err
	}

	logger.Info("Role deleted successfully",
		zap.String("roleID", roleID),
		zap.Duration("duration", duration))

	return nil
}

func (dao *RoleDAO) GetRole(ctx context.Context, roleID string) (*model.Role, error) {
	start := time.Now()

	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close()

	query := `
    MATCH (r:` + authz_neo4j.LabelRole + ` {id: $id})
    OPTIONAL MATCH (r)-[:` + authz_neo4j.RelHasPermission + `]->(p:` + authz_neo4j.LabelPermission + `)
    RETURN r, collect(p.` + authz_neo4j.AttrName + `)
    `
	result, err := session.Run(query, map[string]interface{}{"id": roleID})
	if err != nil {
		logger.Error("Failed to execute get role query",
			zap.Error(err),
			zap.String("roleID", roleID),
			zap.Duration("duration", time.Since(start)))
		return nil, authz_errors.ErrDatabaseOperation
	}

	if result.Next() {
		values := result.Record().Values
		role := mapNodeToRole(values[0].(neo4j.Node))
		role.Permissions = collectStrings(values[1])
		return role, nil
	}

	logger.Warn("Role not found",
		zap.String("roleID", roleID),
		zap.Duration("duration", time.Since(start)))
	return nil, authz_errors.ErrRoleNotFound
}

// GetRolePermissions returns the default permission list of a role by name.
func (dao *RoleDAO) GetRolePermissions(ctx context.Context, roleName string) ([]string, error) {
	start := time.Now()

	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close()

	query := `
    MATCH (r:` + authz_neo4j.LabelRole + ` {` + authz_neo4j.AttrName + `: $name})
    OPTIONAL MATCH (r)-[:` + authz_neo4j.RelHasPermission + `]->(p:` + authz_neo4j.LabelPermission + `)
    RETURN r.id, collect(p.` + authz_neo4j.AttrName + `)
    `
	result, err := session.Run(query, map[string]interface{}{"name": roleName})
	if err != nil {
		logger.Error("Failed to execute get role permissions query",
			zap.Error(err),
			zap.String("roleName", roleName),
			zap.Duration("duration", time.Since(start)))
		return nil, authz_errors.ErrDatabaseOperation
	}

	if result.Next() {
		return collectStrings(result.Record().Values[1]), nil
	}

	logger.Warn("Role not found",
		zap.String("roleName", roleName),
		zap.Duration("duration", time.Since(start)))
	return nil, authz_errors.ErrRoleNotFound
}

func (dao *RoleDAO) ListRoles(ctx context.Context, limit int, offset int) ([]*model.Role, error) {
	start := time.Now()
	logger.Info("Listing roles", zap.Int("limit", limit), zap.Int("offset", offset))

	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close()

	query := `
    MATCH (r:` + authz_neo4j.LabelRole + `)
    OPTIONAL MATCH (r)-[:` + authz_neo4j.RelHasPermission + `]->(p:` + authz_neo4j.LabelPermission + `)
    RETURN r, collect(p.` + authz_neo4j.AttrName + `)
    ORDER BY r.` + authz_neo4j.AttrCreatedAt + ` DESC
    SKIP $offset
    LIMIT $limit
    `
	result, err := session.Run(query, map[string]interface{}{
		"limit":  limit,
		"offset": offset,
	})
	if err != nil {
		logger.Error("Failed to execute list roles query",
			zap.Error(err),
			zap.Duration("duration", time.Since(start)))
		return nil, authz_errors.ErrDatabaseOperation
	}

	var roles []*model.Role
	for result.Next() {
		values := result.Record().Values
		role := mapNodeToRole(values[0].(neo4j.Node))
		role.Permissions = collectStrings(values[1])
		roles = append(roles, role)
	}

	logger.Info("Roles listed successfully",
		zap.Int("count", len(roles)),
		zap.Duration("duration", time.Since(start)))

	return roles, nil
}

// Helper function to map Neo4j Node to Role struct
func mapNodeToRole(node neo4j.Node) *model.Role {
	props := node.Props
	role := &model.Role{}

	role.ID, _ = props["id"].(string)
	role.Name, _ = props[authz_neo4j.AttrName].(string)
	role.Description, _ = props["description"].(string)
	if createdAt, ok := props[authz_neo4j.AttrCreatedAt].(string); ok {
		role.CreatedAt = helper_util.ParseTime(createdAt)
	}
	if updatedAt, ok := props[authz_neo4j.AttrUpdatedAt].(string); ok {
		role.UpdatedAt = helper_util.ParseTime(updatedAt)
	}

	return role
}
