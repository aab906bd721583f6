// ABOUTME: ModemManager D-Bus client implementing the Bus interface.
// ABOUTME: Talks to org.freedesktop.ModemManager1 on the system bus via godbus.

package modem

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/godbus/dbus/v5"
)

const (
	mmService        = "org.freedesktop.ModemManager1"
	mmObjectPath     = "/org/freedesktop/ModemManager1"
	mmModemIface     = "org.freedesktop.ModemManager1.Modem"
	mmMessagingIface = "org.freedesktop.ModemManager1.Modem.Messaging"
	mmSMSIface       = "org.freedesktop.ModemManager1.Sms"

	objectManagerIface = "org.freedesktop.DBus.ObjectManager"
	propertiesIface    = "org.freedesktop.DBus.Properties"
)

// ModemManager implements Bus against the ModemManager system service.
type ModemManager struct {
	conn   *dbus.Conn
	logger *slog.Logger
}

// NewModemManager connects to the system D-Bus.
func NewModemManager(logger *slog.Logger) (*ModemManager, error) {
	conn, err := dbus.ConnectSystemBus()
	if err != nil {
		return nil, fmt.Errorf("connecting to system D-Bus: %w", err)
	}
	return &ModemManager{conn: conn, logger: logger}, nil
}

// ListModems enumerates managed objects and returns every object exposing
// the Modem interface together with its IMEI.
func (m *ModemManager) ListModems(ctx context.Context) ([]Info, error) {
	obj := m.conn.Object(mmService, mmObjectPath)

	var managed map[dbus.ObjectPath]map[string]map[string]dbus.Variant
	err := obj.CallWithContext(ctx, objectManagerIface+".GetManagedObjects", 0).Store(&managed)
	if err != nil {
		return nil, fmt.Errorf("getting managed objects: %w", err)
	}

	modems := make([]Info, 0, len(managed))
	for path, ifaces := range managed {
		if _, ok := ifaces[mmModemIface]; !ok {
			continue
		}

		imei, err := m.getStringProperty(ctx, path, mmModemIface, "EquipmentIdentifier")
		if err != nil {
			return nil, fmt.Errorf("reading IMEI for %s: %w", path, err)
		}

		modems = append(modems, Info{Path: string(path), IMEI: imei})
	}

	return modems, nil
}

// ListMessages lists the SMS objects of a modem and reads each message's
// sender, text, and raw timestamp.
func (m *ModemManager) ListMessages(ctx context.Context, path string) ([]SMS, error) {
	obj := m.conn.Object(mmService, dbus.ObjectPath(path))

	var smsPaths []dbus.ObjectPath
	err := obj.CallWithContext(ctx, mmMessagingIface+".List", 0).Store(&smsPaths)
	if err != nil {
		return nil, fmt.Errorf("listing messages on %s: %w", path, err)
	}

	messages := make([]SMS, 0, len(smsPaths))
	for _, smsPath := range smsPaths {
		sender, err := m.getStringProperty(ctx, smsPath, mmSMSIface, "Number")
		if err != nil {
			return nil, fmt.Errorf("reading sender of %s: %w", smsPath, err)
		}
		text, err := m.getStringProperty(ctx, smsPath, mmSMSIface, "Text")
		if err != nil {
			return nil, fmt.Errorf("reading text of %s: %w", smsPath, err)
		}
		ts, err := m.getStringProperty(ctx, smsPath, mmSMSIface, "Timestamp")
		if err != nil {
			return nil, fmt.Errorf("reading timestamp of %s: %w", smsPath, err)
		}

		messages = append(messages, SMS{Sender: sender, Text: text, Timestamp: ts})
	}

	return messages, nil
}

// getStringProperty reads a string property over the Properties interface.
func (m *ModemManager) getStringProperty(ctx context.Context, path dbus.ObjectPath, iface, prop string) (string, error) {
	obj := m.conn.Object(mmService, path)

	var variant dbus.Variant
	err := obj.CallWithContext(ctx, propertiesIface+".Get", 0, iface, prop).Store(&variant)
	if err != nil {
		return "", fmt.Errorf("getting %s.%s: %w", iface, prop, err)
	}

	value, ok := variant.Value().(string)
	if !ok {
		return "", fmt.Errorf("property %s.%s is not a string", iface, prop)
	}
	return value, nil
}

// Close disconnects from the bus.
func (m *ModemManager) Close() error {
	return m.conn.Close()
}
