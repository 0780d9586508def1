package dialogue

import (
	"fmt"
	"strings"

	"github.com/posterman/orderbot/pkg/domain"
)

// Quick replies shared by several states.
const (
	OptionPlaceOrder   = "🛒 Place an order"
	OptionTrackOrder   = "📦 Track Order"
	OptionCustomPrint  = "✨ Custom Print"
	OptionAnime        = "🦸 Anime Collection"
	OptionMainMenu     = "🔙 Main Menu"
	OptionWebsite      = "Website Product"
	OptionCustom       = "Custom Product"
	OptionUploaded     = "I have uploaded details"
	OptionYes          = "Yes"
	OptionNoCheckout   = "No, Checkout"
	OptionCheckStatus  = "Check Order Status"
	OptionAnotherOrder = "Place another order"
)

// DefaultHandoffLink is the human support chat used for escalations.
const DefaultHandoffLink = "https://wa.me/919876543210"

// GenericProduct is offered when the catalog is empty or unavailable.
const GenericProduct = "Generic Website Product"

// maxProductOptions caps catalog titles offered as quick replies.
const maxProductOptions = 10

// MainMenu returns the fixed welcome menu.
func MainMenu() []string {
	return []string{OptionPlaceOrder, OptionTrackOrder, OptionCustomPrint, OptionAnime}
}

const welcomeText = "Welcome to PosterMan! 🎨\n" +
	"I'm PosterBot, your personal art curator.\n" +
	"Looking for some museum-grade art for your walls today?"

const policiesText = "📜 **PosterMan Policies**\n\n" +
	"• **Shipping**: Free Shipping over ₹999. Dispatched within 24-48 hours.\n" +
	"• **Returns**: We offer Free Replacements for damage during transit (video proof required).\n" +
	"• **Refunds**: Issued only after verification.\n" +
	"• **Note**: Custom orders cannot be cancelled once confirmed."

const paymentText = "Please scan the QR code below to complete payment 💳\n" +
	"Our team will verify the payment within 7 hours.\n" +
	"You will receive a confirmation message after verification."

func welcomeReply() domain.Reply {
	return domain.NewReply(welcomeText, MainMenu()...)
}

func trackPromptReply() domain.Reply {
	return domain.NewReply("Sure! Please enter your **Order ID** (e.g., #PM-1234) to check status.", OptionMainMenu)
}

func browseReply(category string) domain.Reply {
	label := strings.ToUpper(category[:1]) + category[1:]
	text := fmt.Sprintf("Welcome to the Otaku Zone! Check out our %s collection.\n"+
		"🔥 **Admin Tip**: Buy 2 Get 10%% Off!\n\n"+
		"[View Collection](/products.html?cat=%s)", label, category)
	return domain.NewReply(text, OptionPlaceOrder, OptionCustomPrint)
}

func uploadReceivedReply() domain.Reply {
	return domain.NewReply("Wow, great shot! 📸 I've received your image. How many copies do you need?", "1", "2", "3", "5")
}

func customInfoReply() domain.Reply {
	return domain.NewReply("Finding your masterpiece? We use **240gsm premium paper** for custom prints! 🖼️\n\n"+
		"Upload your art by clicking the 📎 icon below.", OptionMainMenu)
}

func policiesReply() domain.Reply {
	return domain.NewReply(policiesText, OptionMainMenu)
}

func checkoutReply() domain.Reply {
	return domain.NewReply("Ready to own your art? 🛒\n\n[Proceed to Checkout](/checkout.html)", OptionMainMenu)
}

func handoffReply(link string) domain.Reply {
	return domain.NewReply(fmt.Sprintf("Click here to chat with our expert: [Open WhatsApp](%s)", link), OptionMainMenu)
}

func escalationReply(link string) domain.Reply {
	return domain.NewReply(fmt.Sprintf("I'm having trouble finding that. Would you like to chat with a human expert? "+
		"[Chat on WhatsApp](%s)", link), OptionMainMenu)
}

func notUnderstoodReply() domain.Reply {
	return domain.NewReply("I didn't quite catch that. Could you rephrase? 🤔", MainMenu()...)
}

func categoryReply(text string) domain.Reply {
	return domain.NewReply(text, OptionWebsite, OptionCustom)
}

func statusReply(orderID string, status domain.OrderStatus) domain.Reply {
	icon := "⏳"
	if status == domain.OrderShipped {
		icon = "🚚"
	}
	return domain.NewReply(fmt.Sprintf("Order #%s: %s %s", orderID, status, icon), OptionMainMenu)
}

func orderNotFoundReply() domain.Reply {
	return domain.NewReply("Order ID not found.", OptionMainMenu, OptionTrackOrder)
}

func trackingFailedReply() domain.Reply {
	return domain.NewReply("We couldn't check that order right now. Please try again later.", OptionMainMenu)
}

func addedToCartReply() domain.Reply {
	return domain.NewReply("Added to cart. Add more?", OptionYes, OptionNoCheckout)
}

func confirmationReply(order domain.Order) domain.Reply {
	text := fmt.Sprintf("Order Placed Successfully! ✅\n"+
		"Order ID: #%s\n\n"+
		"Items: %d\n"+
		"Name: %s\n"+
		"Phone: %s\n\n%s", order.Ref, len(order.Items), order.Name, order.Phone, paymentText)
	return domain.NewReply(text, OptionCheckStatus, OptionAnotherOrder)
}
