// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package logdb

// Column order must match the Scan calls in queryEvents and queryTransfers.
const (
	eventTableSchema = `CREATE TABLE IF NOT EXISTS event (
	blockID BLOB(32) NOT NULL,
	eventIndex INTEGER NOT NULL,
	blockNumber INTEGER NOT NULL,
	blockTime INTEGER NOT NULL,
	txID BLOB(32) NOT NULL,
	txOrigin BLOB(20) NOT NULL,
	address BLOB(20) NOT NULL,
	topic0 BLOB(32),
	topic1 BLOB(32),
	topic2 BLOB(32),
	topic3 BLOB(32),
	topic4 BLOB(32),
	data BLOB,
	PRIMARY KEY (blockID, eventIndex)
);
CREATE INDEX IF NOT EXISTS eventBlockNumberIndex ON event(blockNumber);
CREATE INDEX IF NOT EXISTS eventAddressIndex ON event(address);
CREATE INDEX IF NOT EXISTS eventTopic1Index ON event(topic1);
`

	transferTableSchema = `CREATE TABLE IF NOT EXISTS transfer (
	blockID BLOB(32) NOT NULL,
	transferIndex INTEGER NOT NULL,
	blockNumber INTEGER NOT NULL,
	blockTime INTEGER NOT NULL,
	txID BLOB(32) NOT NULL,
	txOrigin BLOB(20) NOT NULL,
	sender BLOB(20) NOT NULL,
	recipient BLOB(20) NOT NULL,
	amount BLOB(32),
	token INTEGER NOT NULL,
	PRIMARY KEY (blockID, transferIndex)
);
CREATE INDEX IF NOT EXISTS transferBlockNumberIndex ON transfer(blockNumber);
CREATE INDEX IF NOT EXISTS transferTxIDIndex ON transfer(txID);
CREATE INDEX IF NOT EXISTS transferSenderIndex ON transfer(sender);
CREATE INDEX IF NOT EXISTS transferRecipientIndex ON transfer(recipient);
`
)
