package services

import (
	"context"
	"fmt"

	"bounty-market/internal/models"
	"bounty-market/internal/repository"

	"github.com/google/uuid"
)

var (
	moderatorRoles   = []models.MemberRole{models.RoleOwner, models.RoleAdmin}
	contributorRoles = []models.MemberRole{models.RoleOwner, models.RoleAdmin, models.RoleContributor}
)

// transitionRule describes who may apply a transition and from which statuses.
// An actor passes when their role is listed, or when allowAssignee/allowCreator
// is set and they are the bounty's assignee/creator.
type transitionRule struct {
	name          string
	roles         []models.MemberRole
	allowAssignee bool
	allowCreator  bool
	statuses      []models.BountyStatus
	// validate checks the request itself; it runs once membership is known
	validate func() error
}

// guardResult is what a passing guard hands to the transition
type guardResult struct {
	bounty *models.Bounty
	role   models.MemberRole
}

// resolveRole returns the actor's role in the workspace. Non-members get
// FORBIDDEN; members of a deleted workspace get NOT_FOUND.
func resolveRole(ctx context.Context, repo *repository.Repository, actor string, workspaceID uuid.UUID) (models.MemberRole, error) {
	if actor == "" {
		return "", ErrUnauthorized
	}
	role, err := repo.GetMemberRole(ctx, workspaceID, actor)
	if repository.IsNotFound(err) {
		return "", newError(CodeForbidden, "not a member of workspace %s", workspaceID)
	}
	if err != nil {
		return "", fmt.Errorf("failed to resolve member role: %w", err)
	}

	if _, err := repo.GetWorkspace(ctx, workspaceID); err != nil {
		if repository.IsNotFound(err) {
			return "", newError(CodeNotFound, "workspace %s not found", workspaceID)
		}
		return "", fmt.Errorf("failed to load workspace: %w", err)
	}
	return role, nil
}

// requireRole resolves the actor's role and checks it against allowed
func requireRole(ctx context.Context, repo *repository.Repository, actor string, workspaceID uuid.UUID, allowed ...models.MemberRole) (models.MemberRole, error) {
	role, err := resolveRole(ctx, repo, actor, workspaceID)
	if err != nil {
		return "", err
	}
	if !hasRole(allowed, role) {
		return "", newError(CodeForbidden, "role %s may not perform this action", role)
	}
	return role, nil
}

func hasRole(roles []models.MemberRole, role models.MemberRole) bool {
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}

func hasStatus(statuses []models.BountyStatus, status models.BountyStatus) bool {
	for _, s := range statuses {
		if s == status {
			return true
		}
	}
	return false
}

// guard is the single authorization-and-precondition check run by every
// bounty transition. It must be called inside the transition's transaction:
// the bounty row it returns is locked until commit.
//
// Check order: membership, request validation, bounty existence, status,
// then role/ownership.
func guard(ctx context.Context, tx *repository.Repository, actor string, workspaceID, bountyID uuid.UUID, rule transitionRule) (*guardResult, error) {
	role, err := resolveRole(ctx, tx, actor, workspaceID)
	if err != nil {
		return nil, err
	}

	if rule.validate != nil {
		if err := rule.validate(); err != nil {
			return nil, err
		}
	}

	bounty, err := tx.GetBountyForUpdate(ctx, workspaceID, bountyID)
	if repository.IsNotFound(err) {
		return nil, newError(CodeNotFound, "bounty %s not found", bountyID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load bounty: %w", err)
	}

	if len(rule.statuses) > 0 && !hasStatus(rule.statuses, bounty.Status) {
		return nil, newError(CodeInvalidState, "cannot %s bounty with status %s", rule.name, bounty.Status)
	}

	if !permitted(rule, role, actor, bounty) {
		return nil, newError(CodeForbidden, "not allowed to %s this bounty", rule.name)
	}

	return &guardResult{bounty: bounty, role: role}, nil
}

func permitted(rule transitionRule, role models.MemberRole, actor string, bounty *models.Bounty) bool {
	if hasRole(rule.roles, role) {
		return true
	}
	if rule.allowAssignee && bounty.AssigneePubkey != nil && *bounty.AssigneePubkey == actor {
		return true
	}
	if rule.allowCreator && bounty.CreatorPubkey == actor {
		return true
	}
	return false
}
