package gateway

import (
	"context"
	"fmt"

	"bidboard/internal/domain"
)

// Login выполняет вход и возвращает токен с профилем.
func (c *Client) Login(ctx context.Context, creds domain.Credentials) (domain.AuthResult, error) {
	var out domain.AuthResult
	if err := c.post(ctx, "/auth/login", "/auth/login", creds, &out); err != nil {
		return domain.AuthResult{}, err
	}
	return out, nil
}

func (c *Client) Register(ctx context.Context, creds domain.Credentials) (domain.AuthResult, error) {
	var out domain.AuthResult
	if err := c.post(ctx, "/auth/register", "/auth/register", creds, &out); err != nil {
		return domain.AuthResult{}, err
	}
	return out, nil
}

// CurrentUser возвращает профиль владельца сессии.
func (c *Client) CurrentUser(ctx context.Context) (domain.User, error) {
	var out domain.User
	if err := c.get(ctx, "/auth/user", "/auth/user", nil, &out); err != nil {
		return domain.User{}, err
	}
	return out, nil
}

func (c *Client) Applications(ctx context.Context) ([]domain.Application, error) {
	var out []domain.Application
	if err := c.get(ctx, "/applications", "/applications", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) ApplicationHistory(ctx context.Context, userID string) ([]domain.Application, error) {
	var out []domain.Application
	endpoint := escaped("/applications/bid-history", userID)
	if err := c.get(ctx, "/applications/bid-history/:userId", endpoint, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Resumes(ctx context.Context) ([]domain.Resume, error) {
	var out []domain.Resume
	if err := c.get(ctx, "/resumes", "/resumes", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Resume(ctx context.Context, id string) (domain.Resume, error) {
	var out domain.Resume
	if err := c.get(ctx, "/resumes/:id", escaped("/resumes", id), nil, &out); err != nil {
		return domain.Resume{}, err
	}
	return out, nil
}

func (c *Client) CreateResume(ctx context.Context, r domain.Resume) (domain.Resume, error) {
	var out domain.Resume
	if err := c.post(ctx, "/resumes", "/resumes", r, &out); err != nil {
		return domain.Resume{}, err
	}
	return out, nil
}

func (c *Client) UpdateResume(ctx context.Context, r domain.Resume) (domain.Resume, error) {
	if r.ID == "" {
		return domain.Resume{}, fmt.Errorf("update resume: пустой id")
	}
	var out domain.Resume
	if err := c.put(ctx, "/resumes/:id", escaped("/resumes", r.ID), r, &out); err != nil {
		return domain.Resume{}, err
	}
	return out, nil
}

func (c *Client) DeleteResume(ctx context.Context, id string) error {
	return c.delete(ctx, "/resumes/:id", escaped("/resumes", id), nil)
}

func (c *Client) CustomizedResumes(ctx context.Context) ([]domain.CustomizedResume, error) {
	var out []domain.CustomizedResume
	if err := c.get(ctx, "/resumes/customized", "/resumes/customized", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) DeleteCustomizedResume(ctx context.Context, id string) error {
	return c.delete(ctx, "/resumes/customized/:id", escaped("/resumes/customized", id), nil)
}

func (c *Client) Teams(ctx context.Context) ([]domain.Team, error) {
	var out []domain.Team
	if err := c.get(ctx, "/teams", "/teams", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Team(ctx context.Context, id string) (domain.Team, error) {
	var out domain.Team
	if err := c.get(ctx, "/teams/:id", escaped("/teams", id), nil, &out); err != nil {
		return domain.Team{}, err
	}
	return out, nil
}

func (c *Client) CreateTeam(ctx context.Context, t domain.Team) (domain.Team, error) {
	var out domain.Team
	if err := c.post(ctx, "/teams", "/teams", t, &out); err != nil {
		return domain.Team{}, err
	}
	return out, nil
}

func (c *Client) UpdateTeam(ctx context.Context, t domain.Team) (domain.Team, error) {
	if t.ID == "" {
		return domain.Team{}, fmt.Errorf("update team: пустой id")
	}
	var out domain.Team
	if err := c.put(ctx, "/teams/:id", escaped("/teams", t.ID), t, &out); err != nil {
		return domain.Team{}, err
	}
	return out, nil
}

func (c *Client) TeamMembers(ctx context.Context, teamID string) ([]domain.TeamMember, error) {
	var out []domain.TeamMember
	if err := c.get(ctx, "/teams/:id/members", escaped("/teams", teamID)+"/members", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) AddTeamMember(ctx context.Context, teamID string, m domain.TeamMember) (domain.TeamMember, error) {
	var out domain.TeamMember
	if err := c.post(ctx, "/teams/:id/members", escaped("/teams", teamID)+"/members", m, &out); err != nil {
		return domain.TeamMember{}, err
	}
	return out, nil
}
