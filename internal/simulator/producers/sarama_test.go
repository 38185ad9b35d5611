package producers

import (
	"errors"
	"testing"
	"time"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/chrisdamba/couriermatch/internal/models"
)

func TestSaramaProducer_WriteMessage(t *testing.T) {
	mock := mocks.NewSyncProducer(t, nil)
	mock.ExpectSendMessageWithCheckerFunctionAndSucceed(func(val []byte) error {
		if string(val) != `{"session_id":"s1"}` {
			return errors.New("unexpected payload " + string(val))
		}
		return nil
	})
	mock.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	p := NewSaramaProducerFrom(mock)
	if err := p.WriteMessage(models.TopicDriverAssignments, []byte(`{"session_id":"s1"}`)); err != nil {
		t.Fatalf("write: %v", err)
	}
	err := p.WriteMessage(models.TopicPhaseEvents, []byte(`{}`))
	if !errors.Is(err, sarama.ErrOutOfBrokers) {
		t.Fatalf("expected ErrOutOfBrokers, got %v", err)
	}
	if err := p.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
}

func TestSaramaProducer_Uninitialized(t *testing.T) {
	var p SaramaProducer
	if err := p.WriteMessage("t", nil); err == nil {
		t.Fatal("expected error from uninitialized producer")
	}
	if err := p.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
}

func TestNewSaramaConfig(t *testing.T) {
	cfg := newSaramaConfig(&models.Config{SessionTimeoutMs: 12000})
	if cfg.Consumer.Group.Session.Timeout != 12*time.Second {
		t.Errorf("session timeout = %v", cfg.Consumer.Group.Session.Timeout)
	}
	if !cfg.Producer.Return.Successes || cfg.Producer.RequiredAcks != sarama.WaitForAll {
		t.Error("sync producer settings not applied")
	}
	if got := newSaramaConfig(&models.Config{}).Consumer.Group.Session.Timeout; got != 45*time.Second {
		t.Errorf("default session timeout = %v", got)
	}
}

func TestSplitBrokers(t *testing.T) {
	got := splitBrokers(" a:9092, ,b:9092,")
	if len(got) != 2 || got[0] != "a:9092" || got[1] != "b:9092" {
		t.Fatalf("splitBrokers = %v", got)
	}
	if _, err := NewSaramaProducer(&models.Config{KafkaBrokerList: " , "}); err == nil {
		t.Fatal("expected empty broker list to be rejected")
	}
}
