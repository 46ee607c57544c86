package main

import (
	"context"
	"time"

	"github.com/ajuagency/collegia/core"
	"github.com/ajuagency/collegia/core/agency"
	"github.com/ajuagency/collegia/core/user"
)

// addAgent updates or creates an agent account along with its dashboard profile.
func (cli *commandLine) addAgent(name, email, pwd string, isAdmin bool) error {
	var usr user.User
	var err error
	ctx := context.Background()
	name = core.CleanString(name)
	email = core.CleanString(email, true /* lower */)

	created := false
	if usr, err = cli.usrRepo.GetUserByEmail(ctx, email); err != nil {
		if err != user.ErrNotFound {
			return err
		}
		now := time.Now().UTC()
		usr = user.User{
			Email:     email,
			CreatedAt: now,
		}
		created = true
	}
	usr.Name = name
	usr.IsActive = true
	usr.IsAdmin = isAdmin
	usr.UpdatedAt = time.Now().UTC()
	if err := usr.SetPassword(pwd); err != nil {
		return err
	}
	if created {
		if usr, err = cli.usrRepo.CreateUser(ctx, usr); err != nil {
			return err
		}
	} else if usr, err = cli.usrRepo.UpdateUser(ctx, usr); err != nil {
		return err
	}

	// every agent account carries a dashboard profile
	if _, err = cli.agencyRepo.GetProfileByUserID(ctx, usr.ID); err != nil {
		if err != agency.ErrProfileNotFound {
			return err
		}
		profile := agency.AgentProfile{
			UserID:          usr.ID,
			DashboardConfig: agency.DefaultDashboardConfig(),
		}
		if _, err = cli.agencyRepo.CreateProfile(ctx, profile); err != nil {
			return err
		}
	}
	return nil
}
