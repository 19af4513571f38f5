// Package seed loads workspace fixtures from YAML for local development.
package seed

import (
	"context"
	"fmt"
	"io"
	"log"

	"bounty-market/internal/models"
	"bounty-market/internal/services"

	"gopkg.in/yaml.v3"
)

// Fixture is the top-level document of a seed file
type Fixture struct {
	Workspaces []WorkspaceFixture `yaml:"workspaces"`
}

type WorkspaceFixture struct {
	Name        string          `yaml:"name"`
	Description string          `yaml:"description"`
	Owner       string          `yaml:"owner"`
	Deposit     int64           `yaml:"deposit"`
	Members     []MemberFixture `yaml:"members"`
	Bounties    []BountyFixture `yaml:"bounties"`
}

type MemberFixture struct {
	Pubkey string            `yaml:"pubkey"`
	Role   models.MemberRole `yaml:"role"`
}

type BountyFixture struct {
	Title       string              `yaml:"title"`
	Description string              `yaml:"description"`
	Amount      int64               `yaml:"amount"`
	Tags        []string            `yaml:"tags"`
	Languages   []string            `yaml:"languages"`
	Status      models.BountyStatus `yaml:"status"`
}

// Parse decodes a fixture and checks the fields the services do not
func Parse(r io.Reader) (*Fixture, error) {
	var f Fixture
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("failed to decode fixture: %w", err)
	}

	for i, ws := range f.Workspaces {
		if ws.Owner == "" {
			return nil, fmt.Errorf("workspace %d (%s): owner is required", i, ws.Name)
		}
		if ws.Deposit < 0 {
			return nil, fmt.Errorf("workspace %d (%s): deposit must not be negative", i, ws.Name)
		}
	}
	return &f, nil
}

// Apply creates every workspace in f through the services, as its owner
func Apply(ctx context.Context, f *Fixture, workspaces *services.WorkspaceService, bounties *services.BountyService) ([]*services.WorkspaceDetail, error) {
	created := make([]*services.WorkspaceDetail, 0, len(f.Workspaces))
	for _, wf := range f.Workspaces {
		ws, err := workspaces.CreateWorkspace(ctx, wf.Owner, &models.CreateWorkspaceRequest{
			Name:        wf.Name,
			Description: wf.Description,
		})
		if err != nil {
			return created, fmt.Errorf("workspace %s: %w", wf.Name, err)
		}

		for _, m := range wf.Members {
			if _, err := workspaces.AddMember(ctx, wf.Owner, ws.ID, &models.AddMemberRequest{Pubkey: m.Pubkey, Role: m.Role}); err != nil {
				return created, fmt.Errorf("workspace %s member %s: %w", wf.Name, m.Pubkey, err)
			}
		}

		if wf.Deposit > 0 {
			if _, err := workspaces.Deposit(ctx, wf.Owner, ws.ID, wf.Deposit); err != nil {
				return created, fmt.Errorf("workspace %s deposit: %w", wf.Name, err)
			}
		}

		for _, bf := range wf.Bounties {
			_, err := bounties.CreateBounty(ctx, wf.Owner, ws.ID, &models.CreateBountyRequest{
				Title:           bf.Title,
				Description:     bf.Description,
				Amount:          bf.Amount,
				Tags:            bf.Tags,
				CodingLanguages: bf.Languages,
				Status:          bf.Status,
			})
			if err != nil {
				return created, fmt.Errorf("workspace %s bounty %q: %w", wf.Name, bf.Title, err)
			}
		}

		log.Printf("[Seed] Workspace %s (%s) seeded", ws.ID, wf.Name)
		created = append(created, ws)
	}
	return created, nil
}
