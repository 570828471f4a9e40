// Package notify delivers workflow events to the people who care about
// them: approvers get mail when a request opens, requesters get mail when
// it is decided, and connected dashboards get a websocket push. Delivery
// is strictly best-effort; the workflow transaction has already committed
// by the time anything here runs.
package notify

import (
	"context"
	"fmt"
	"log"
	"time"

	"asset-backend/internal/metrics"
	"asset-backend/internal/models"
	"asset-backend/internal/repositories"
)

const sendTimeout = 10 * time.Second

type Gateway struct {
	mailer *Mailer
	hub    *Hub
	users  *repositories.UserRepository
}

func NewGateway(mailer *Mailer, hub *Hub, users *repositories.UserRepository) *Gateway {
	return &Gateway{mailer: mailer, hub: hub, users: users}
}

// WorkflowCreated notifies everyone who can decide the request.
func (g *Gateway) WorkflowCreated(wf *models.Workflow, asset *models.Asset, requester *models.User) {
	g.hub.Broadcast("workflow.created", wf)

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
		defer cancel()

		var to []string
		for _, role := range []models.UserRole{models.RoleAdmin, models.RoleManager} {
			users, err := g.users.ListActiveByRole(ctx, role)
			if err != nil {
				log.Printf("[Notify] Failed to resolve approvers: %v", err)
				metrics.NotificationFailuresTotal.Inc()
				return
			}
			for _, u := range users {
				to = append(to, u.Email)
			}
		}

		subject := fmt.Sprintf("New %s request for %s", wf.Type, asset.AssetTag)
		body := fmt.Sprintf(
			"%s has requested a %s of asset %s (%s).\n\nReason: %s\n\nPlease review the request.",
			requester.Name, wf.Type, asset.AssetTag, asset.Name, stringOrDash(wf.Reason))
		if err := g.mailer.Send(to, subject, body); err != nil {
			log.Printf("[Notify] Failed to mail approvers for workflow %s: %v", wf.ID, err)
			metrics.NotificationFailuresTotal.Inc()
		}
	}()
}

// WorkflowDecided notifies the requester of the outcome.
func (g *Gateway) WorkflowDecided(wf *models.Workflow, asset *models.Asset) {
	g.hub.Broadcast("workflow.decided", wf)

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
		defer cancel()

		requester, err := g.users.Get(ctx, wf.RequesterID)
		if err != nil {
			log.Printf("[Notify] Failed to resolve requester for workflow %s: %v", wf.ID, err)
			metrics.NotificationFailuresTotal.Inc()
			return
		}

		subject := fmt.Sprintf("Your %s request for %s was %s", wf.Type, asset.AssetTag, wf.Status)
		body := fmt.Sprintf("Hi %s,\n\nyour %s request for asset %s (%s) was %s.",
			requester.Name, wf.Type, asset.AssetTag, asset.Name, wf.Status)
		if wf.Status == models.WorkflowRejected && wf.RejectReason != nil {
			body += "\n\nReason: " + *wf.RejectReason
		}
		if wf.CompletionNotes != nil && *wf.CompletionNotes != "" {
			body += "\n\nNote from the approver: " + *wf.CompletionNotes
		}
		if err := g.mailer.Send([]string{requester.Email}, subject, body); err != nil {
			log.Printf("[Notify] Failed to mail requester for workflow %s: %v", wf.ID, err)
			metrics.NotificationFailuresTotal.Inc()
		}
	}()
}

func stringOrDash(s *string) string {
	if s == nil || *s == "" {
		return "-"
	}
	return *s
}
