package http

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"roomcast/internal/core"
	"roomcast/internal/proto"
)

func TestHealthEndpoint(t *testing.T) {
	ts, _ := startTestServer(t, time.Minute)

	resp, err := ts.Client().Get(ts.URL + "/health")
	if err != nil {
		t.Fatalf("health request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		t.Fatalf("unexpected status: %d", resp.StatusCode)
	}
}

func TestWebSocketJoinAndChat(t *testing.T) {
	ts, _ := startTestServer(t, time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	connA := dialWS(t, ctx, ts)
	connB := dialWS(t, ctx, ts)

	sendFrame(t, ctx, connA, proto.InboundTypeJoin, proto.JoinData{User: "alice", Room: "general"})

	// The joiner sees its own system notice.
	var notice proto.EventMessage
	if err := json.Unmarshal(readEvent(t, ctx, connA, proto.EventRoomMessage), &notice); err != nil {
		t.Fatalf("unmarshal room message: %v", err)
	}
	if notice.User != core.SystemUser || notice.Message != "alice has joined the room." {
		t.Fatalf("unexpected join notice: %+v", notice)
	}

	// Everyone, joined or not, sees the room list change.
	var list proto.EventRoomList
	if err := json.Unmarshal(readEvent(t, ctx, connB, proto.EventRoomListUpdated), &list); err != nil {
		t.Fatalf("unmarshal room list: %v", err)
	}
	if len(list.Rooms) != 1 || list.Rooms[0] != "general" {
		t.Fatalf("unexpected room list: %+v", list)
	}

	sendFrame(t, ctx, connB, proto.InboundTypeJoin, proto.JoinData{User: "bob", Room: "general"})

	// Wait for bob's own join notice so the membership is committed before
	// alice sends her message.
	var bobNotice proto.EventMessage
	if err := json.Unmarshal(readEvent(t, ctx, connB, proto.EventRoomMessage), &bobNotice); err != nil {
		t.Fatalf("unmarshal bob join notice: %v", err)
	}

	sendFrame(t, ctx, connA, proto.InboundTypeMsg, proto.MsgData{Text: "hi there"})

	var msg proto.EventMessage
	if err := json.Unmarshal(readEvent(t, ctx, connB, proto.EventChatMessage), &msg); err != nil {
		t.Fatalf("unmarshal chat message: %v", err)
	}
	if msg.User != "alice" || msg.Message != "hi there" {
		t.Fatalf("unexpected chat payload: %+v", msg)
	}
}

func TestWebSocketJoinValidation(t *testing.T) {
	ts, _ := startTestServer(t, time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn := dialWS(t, ctx, ts)

	sendFrame(t, ctx, conn, proto.InboundTypeJoin, proto.JoinData{User: "alice"})

	protoErr := readError(t, ctx, conn)
	if protoErr == nil || protoErr.Code != core.ErrCodeBadRequest {
		t.Fatalf("expected bad_request error, got %+v", protoErr)
	}
}

func TestWebSocketUnknownFrameType(t *testing.T) {
	ts, _ := startTestServer(t, time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn := dialWS(t, ctx, ts)

	sendFrame(t, ctx, conn, "bogus", struct{}{})

	protoErr := readError(t, ctx, conn)
	if protoErr == nil || protoErr.Code != "invalid_message" {
		t.Fatalf("expected invalid_message error, got %+v", protoErr)
	}

	// The connection survives a bad frame.
	sendFrame(t, ctx, conn, proto.InboundTypeJoin, proto.JoinData{User: "alice", Room: "general"})
	readEvent(t, ctx, conn, proto.EventRoomListUpdated)
}

func TestWebSocketDisconnectArmsGracePeriod(t *testing.T) {
	ts, reg := startTestServer(t, 50*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn := dialWS(t, ctx, ts)
	sendFrame(t, ctx, conn, proto.InboundTypeJoin, proto.JoinData{User: "alice", Room: "lobby"})
	readEvent(t, ctx, conn, proto.EventRoomListUpdated)

	conn.CloseNow()

	// Registry notices the drop, then purges after the grace period.
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if len(reg.ListRooms()) == 0 {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("room not purged after disconnect, got %v", reg.ListRooms())
}
